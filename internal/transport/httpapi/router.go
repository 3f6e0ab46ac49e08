// Package httpapi exposes the chat operations over HTTP with gin.
package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatz/config"
	"chatz/internal/channel"
	"chatz/internal/encrypted"
	"chatz/internal/message"
	"chatz/internal/stats"
	"chatz/internal/user"
	"chatz/internal/ws"
	"chatz/pkg/logger"
)

type StatsReader interface {
	Get(ctx context.Context) (*stats.Stats, error)
}

type Handler struct {
	users     user.UserUsecase
	channels  channel.ChannelUsecase
	messages  message.MessageUsecase
	encrypted encrypted.EncryptedMessageUsecase
	stats     StatsReader
	hub       *ws.Hub
	logger    logger.Logger
}

// NewHandler wires the usecases. hub may be nil, which disables /ws.
func NewHandler(
	users user.UserUsecase,
	channels channel.ChannelUsecase,
	messages message.MessageUsecase,
	encrypted encrypted.EncryptedMessageUsecase,
	stats StatsReader,
	hub *ws.Hub,
	logger logger.Logger,
) *Handler {
	return &Handler{
		users:     users,
		channels:  channels,
		messages:  messages,
		encrypted: encrypted,
		stats:     stats,
		hub:       hub,
		logger:    logger,
	}
}

func (h *Handler) Router(cfg config.Config) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/", h.Authenticate(cfg.JWT))

	api.POST("/users", h.RegisterUser)
	api.GET("/users", h.ListUsers)
	api.GET("/users/:principal", h.GetUser)
	api.GET("/me", h.GetCurrentUser)
	api.PATCH("/me", h.UpdateUser)
	api.GET("/me/keys", h.GetEncryptedKeys)
	api.PUT("/me/keys/:tag", h.SetEncryptedKey)

	api.POST("/channels", h.CreateChannel)
	api.POST("/encrypted-channels", h.CreateEncryptedChannel)
	api.GET("/channels", h.ListChannels)
	api.GET("/channels/:id", h.GetChannel)
	api.POST("/channels/:id/join", h.JoinChannel)
	api.POST("/channels/:id/leave", h.LeaveChannel)
	api.DELETE("/channels/:id", h.DeleteChannel)
	api.GET("/channels/:id/encrypted-messages", h.ListChannelEncryptedMessages)
	api.POST("/channels/:id/encrypted-messages/decrypt", h.DecryptChannel)

	api.POST("/messages", h.SendMessage)
	api.GET("/messages", h.ListMessages)
	api.GET("/messages/:id", h.GetMessage)

	api.POST("/encrypted-messages", h.CreateEncryptedMessage)
	api.GET("/encrypted-messages", h.ListEncryptedMessages)
	api.POST("/encrypted-messages/:id/decrypt", h.DecryptMessage)
	api.POST("/encrypted-messages/:id/key", h.GetSymmetricKey)
	api.POST("/encrypted-messages/:id/share", h.ShareEncryptedMessage)
	api.DELETE("/encrypted-messages/:id", h.DeleteEncryptedMessage)
	api.GET("/verification-key", h.GetVerificationKey)

	api.GET("/stats", h.GetStats)
	api.POST("/maintenance/cleanup", h.CleanupExpired)
	api.POST("/maintenance/general-channel", h.FixGeneralChannel)

	if h.hub != nil {
		api.GET("/ws", h.ServeWs)
	}
	return r
}

func idParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, badRequest(name + " must be a positive integer")
	}
	return id, nil
}

func optionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest(name + " must be an integer")
	}
	return &n, nil
}
