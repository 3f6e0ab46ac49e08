package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatz/internal/ws"
)

func (h *Handler) GetStats(c *gin.Context) {
	s, err := h.stats.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ServeWs handles GET /ws. Upgrade failures are already answered by the
// upgrader.
func (h *Handler) ServeWs(c *gin.Context) {
	if err := ws.ServeWs(h.hub, c.Writer, c.Request, caller(c)); err != nil {
		h.logger.Warn("ws upgrade failed", "request_id", requestID(c), "error", err)
	}
}
