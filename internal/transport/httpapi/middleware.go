package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"chatz/config"
	appErrors "chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

// RequestID tags every request with an id, reusing the caller's header
// when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"request_id", requestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Authenticate verifies the identity provider's bearer token and takes its
// subject as the caller principal.
func (h *Handler) Authenticate(cfg config.JWT) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(cfg.Secret)

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			h.respondError(c, appErrors.ErrUnauthenticated)
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil || claims.Subject == "" {
			h.respondError(c, appErrors.Unauthenticated("invalid bearer token"))
			return
		}

		p := identity.Principal(claims.Subject)
		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(identity.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func caller(c *gin.Context) identity.Principal {
	p, _ := identity.FromContext(c.Request.Context())
	return p
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
