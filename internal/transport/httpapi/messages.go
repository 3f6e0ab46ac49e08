package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatz/internal/message"
	"chatz/internal/message/model"
)

// messageRequest is shared by plaintext and encrypted sends.
type messageRequest struct {
	Content     string             `json:"content"`
	ChannelID   *uint64            `json:"channel_id"`
	ReplyTo     *uint64            `json:"reply_to"`
	MessageType model.MessageType  `json:"message_type"`
	Attachments []model.Attachment `json:"attachments"`
}

// SendMessage handles POST /messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	msg, err := h.messages.Send(c.Request.Context(), caller(c), message.SendCommand{
		Content:     req.Content,
		ChannelID:   req.ChannelID,
		ReplyTo:     req.ReplyTo,
		MessageType: req.MessageType,
		Attachments: req.Attachments,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessages handles GET /messages?channel_id=&limit=&offset=
func (h *Handler) ListMessages(c *gin.Context) {
	var (
		query message.ListQuery
		err   error
	)
	if raw := c.Query("channel_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.respondError(c, badRequest("channel_id must be a positive integer"))
			return
		}
		query.ChannelID = &id
	}
	if query.Limit, err = optionalIntQuery(c, "limit"); err != nil {
		h.respondError(c, err)
		return
	}
	if query.Offset, err = optionalIntQuery(c, "offset"); err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.messages.List(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	msg, err := h.messages.GetMessage(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
