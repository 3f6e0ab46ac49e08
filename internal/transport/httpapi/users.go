package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatz/internal/user"
	"chatz/pkg/identity"
)

type registerRequest struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type setKeyRequest struct {
	Value string `json:"value"`
}

// RegisterUser handles POST /users
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	u, err := h.users.Register(c.Request.Context(), caller(c), user.RegisterCommand{Username: req.Username, Bio: req.Bio})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUser handles PATCH /me
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	u, err := h.users.Update(c.Request.Context(), caller(c), user.UpdateCommand{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	u, err := h.users.GetCurrentUser(c.Request.Context(), caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.GetUser(c.Request.Context(), identity.Principal(c.Param("principal")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// SetEncryptedKey handles PUT /me/keys/:tag
func (h *Handler) SetEncryptedKey(c *gin.Context) {
	var req setKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}
	if err := h.users.SetEncryptedKey(c.Request.Context(), caller(c), c.Param("tag"), req.Value); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetEncryptedKeys(c *gin.Context) {
	keys, err := h.users.GetEncryptedKeys(c.Request.Context(), caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}
