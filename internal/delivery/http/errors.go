package http

import (
	"errors"
	"net/http"

	"adventure-server/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, domain.ErrBusy):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeBusy, Message: "Scene content is still loading"}
	case errors.Is(err, domain.ErrInvalidChoice):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeInvalidChoice, Message: err.Error()}
	case errors.Is(err, domain.ErrSceneNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeSceneNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrEmptyQuery):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeEmptyQuery, Message: "Search query must not be empty"}
	case errors.Is(err, domain.ErrMissingCredential):
		statusCode = http.StatusServiceUnavailable
		errResp = ErrorResponse{Code: ErrCodeMissingCredential, Message: domain.CredentialErrorMessage}
	default:
		h.logger.Error("Unhandled internal error", zap.String("path", c.FullPath()), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, errResp)
}
