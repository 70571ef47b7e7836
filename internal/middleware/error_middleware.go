package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// classifyError maps an error chain to an HTTP status and error code
func classifyError(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists):
		return http.StatusBadRequest, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized
	case errors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests
	case errors.Is(err, apperrors.ErrUpstreamProvider):
		return http.StatusInternalServerError, dto.ErrorCodeExternalServiceError
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes the error envelope for err. The message is the most
// specific one carried by the error chain.
func HandleAPIError(c *gin.Context, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("code", string(code)).
			Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(code, apperrors.Message(err)))
}

// AbortWithAPIError writes the error envelope and stops the handler chain
func AbortWithAPIError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
