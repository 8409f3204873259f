package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "gearguard/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

var errorStatuses = map[error]int{
	apperrors.ErrEmptyAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:  http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
	apperrors.ErrUnauthorized:       http.StatusUnauthorized,
	apperrors.ErrInvalidToken:       http.StatusUnauthorized,
	apperrors.ErrTokenExpired:       http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:   http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:   http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:  http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	apperrors.ErrForbidden:          http.StatusForbidden,
	apperrors.ErrNotFound:           http.StatusNotFound,
	apperrors.ErrBadRequest:         http.StatusBadRequest,
	apperrors.ErrConflict:           http.StatusConflict,
	apperrors.ErrProfileMissing:     http.StatusInternalServerError,
}

// ErrorResponse maps domain errors onto HTTP statuses. The profile-missing
// configuration error is logged at error level; normal denials are not.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := err.Error()
	var details map[string]interface{}

	var httpErr *apperrors.HttpError
	var validationErr *apperrors.ValidationError
	var conflictErr *apperrors.ConflictError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
		details = httpErr.Details
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
		message = validationErr.Message
		if validationErr.Field != "" {
			details = map[string]interface{}{"field": validationErr.Field}
		}
	case errors.As(err, &conflictErr):
		code = http.StatusConflict
		message = conflictErr.Message
		if conflictErr.Field != "" {
			details = map[string]interface{}{"field": conflictErr.Field}
		}
	default:
		for sentinel, status := range errorStatuses {
			if errors.Is(err, sentinel) {
				code = status
				message = sentinel.Error()
				break
			}
		}
	}

	if errors.Is(err, apperrors.ErrProfileMissing) {
		logger.Error("configuration error: authenticated user has no profile", zap.Error(err))
	}

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	}
	if details != nil {
		response.Body = details
	}

	return ctx.JSON(code, response)
}
