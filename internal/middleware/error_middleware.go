package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// classify maps an error category to a status, a default code and a default message
func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrResourceInUse):
		return http.StatusBadRequest, dto.ErrorCodeResourceInUse, "Resource is still in use"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflict"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}

// HandleAPIError writes the error response for a service error.
// Unclassified errors are logged and answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	if status == http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
		return
	}

	detail := dto.NewErrorDetail(code, message)
	if ce, ok := apperrors.AsCustom(err); ok {
		if ce.Code != "" {
			detail.Code = dto.ErrorCode(ce.Code)
		}
		if ce.Message != "" {
			detail.Message = ce.Message
		}
		if field, ok := ce.Details["field"].(string); ok && len(ce.Details) == 1 {
			detail.WithField(field)
		} else if len(ce.Details) > 0 {
			detail.WithDetails(ce.Details)
		}
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// BadRequest answers 400 with a validation error for a malformed parameter
func BadRequest(c *gin.Context, field, message string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithField(field)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
