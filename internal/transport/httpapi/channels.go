package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatz/internal/channel"
)

type createChannelRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type createEncryptedChannelRequest struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	Password          *string `json:"password"`
	PaymentAuthorized bool    `json:"payment_authorized"`
}

type joinRequest struct {
	Password *string `json:"password"`
}

// CreateChannel handles POST /channels
func (h *Handler) CreateChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	ch, err := h.channels.Create(c.Request.Context(), caller(c), channel.CreateChannelCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// CreateEncryptedChannel handles POST /encrypted-channels. The payment
// flag is taken as already validated upstream.
func (h *Handler) CreateEncryptedChannel(c *gin.Context) {
	var req createEncryptedChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	ch, err := h.channels.CreateEncrypted(c.Request.Context(), caller(c), channel.CreateEncryptedChannelCommand{
		Name:              req.Name,
		Description:       req.Description,
		Password:          req.Password,
		PaymentAuthorized: req.PaymentAuthorized,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.channels.ListChannels(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *Handler) GetChannel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ch, err := h.channels.GetChannel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// JoinChannel handles POST /channels/:id/join. The body is optional.
func (h *Handler) JoinChannel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	if err := h.channels.Join(c.Request.Context(), caller(c), id, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LeaveChannel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.channels.Leave(c.Request.Context(), caller(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteChannel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.channels.Delete(c.Request.Context(), caller(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FixGeneralChannel handles POST /maintenance/general-channel
func (h *Handler) FixGeneralChannel(c *gin.Context) {
	ch, err := h.channels.FixGeneralChannel(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}
