package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "chatz/pkg/errors"
)

type errorResponse struct {
	Code    appErrors.Code `json:"code"`
	Message string         `json:"message"`
}

func statusFor(code appErrors.Code) int {
	switch code {
	case appErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case appErrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case appErrors.CodeNotAuthorized, appErrors.CodeInvalidPassword:
		return http.StatusForbidden
	case appErrors.CodeNotFound, appErrors.CodeChannelNotFound:
		return http.StatusNotFound
	case appErrors.CodeUserAlreadyExists:
		return http.StatusConflict
	case appErrors.CodeMessageTooLarge, appErrors.CodeAttachmentTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"code","message"}. Causes of internal
// errors are logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if !appErrors.As(err, &appErr) {
		appErr = &appErrors.AppError{Code: appErrors.CodeInternal, Message: "internal error", Cause: err}
	}
	status := statusFor(appErr.Code)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", requestID(c),
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: appErr.Code, Message: appErr.Message})
}

func badRequest(msg string) error { return appErrors.InvalidInput(msg) }
