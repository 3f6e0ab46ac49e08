package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatz/internal/encrypted"
	"chatz/pkg/identity"
)

type keyRequest struct {
	// X25519 public key, base64 in JSON
	TransportPublicKey []byte `json:"transport_public_key"`
}

type shareRequest struct {
	Principal identity.Principal `json:"principal"`
}

// CreateEncryptedMessage handles POST /encrypted-messages
func (h *Handler) CreateEncryptedMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	id, err := h.encrypted.Create(c.Request.Context(), caller(c), encrypted.CreateCommand{
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
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListEncryptedMessages handles GET /encrypted-messages. scope=all lists
// every live record, otherwise only the caller's.
func (h *Handler) ListEncryptedMessages(c *gin.Context) {
	var (
		out []*encrypted.EncryptedMessageDTO
		err error
	)
	switch c.Query("scope") {
	case "all":
		out, err = h.encrypted.ListAll(c.Request.Context())
	case "", "mine":
		out, err = h.encrypted.ListForCaller(c.Request.Context(), caller(c))
	default:
		err = badRequest("scope must be all or mine")
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListChannelEncryptedMessages(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	out, err := h.encrypted.ListForChannel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DecryptMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	content, err := h.encrypted.Decrypt(c.Request.Context(), caller(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "content": content})
}

// DecryptChannel handles POST /channels/:id/encrypted-messages/decrypt
func (h *Handler) DecryptChannel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	out, err := h.encrypted.DecryptAllForChannel(c.Request.Context(), caller(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetSymmetricKey handles POST /encrypted-messages/:id/key. The body is
// optional; without a transport key the raw key is returned.
func (h *Handler) GetSymmetricKey(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	key, err := h.encrypted.GetSymmetricKey(c.Request.Context(), caller(c), id, req.TransportPublicKey)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, key)
}

func (h *Handler) GetVerificationKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"key": h.encrypted.GetVerificationKey(c.Request.Context())})
}

func (h *Handler) ShareEncryptedMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Principal.IsZero() {
		h.respondError(c, badRequest("principal is required"))
		return
	}
	if err := h.encrypted.Share(c.Request.Context(), caller(c), id, req.Principal); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteEncryptedMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.encrypted.Delete(c.Request.Context(), caller(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CleanupExpired handles POST /maintenance/cleanup
func (h *Handler) CleanupExpired(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"removed": h.encrypted.CleanupExpired(c.Request.Context())})
}
