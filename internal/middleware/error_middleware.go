package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// ErrorStatus maps an application error to its HTTP status and error code
func ErrorStatus(err error) (int, dto.ErrorCode) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrJobNotFound, apperrors.ErrEventNotFound,
		apperrors.ErrStoryNotFound, apperrors.ErrDonationNotFound, apperrors.ErrRegistrationAbsent):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrAlreadyApplied, apperrors.ErrAlreadyRegistered, apperrors.ErrEventFull):
		return http.StatusConflict, dto.ErrorCodeConflict
	case apperrors.Is(err, apperrors.ErrEventClosed, apperrors.ErrJobClosed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeResourceInvalid
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.ErrorCodeTokenNotFound
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrAccountPendingApproval):
		return http.StatusForbidden, dto.ErrorCodePendingApproval
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)
	message := apperrors.UserMessage(err)

	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}

	detail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}
	if status < http.StatusInternalServerError && status != http.StatusNotFound {
		detail = detail.WithSeverity(dto.ErrorSeverityWarning)
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}
