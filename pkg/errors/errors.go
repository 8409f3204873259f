package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = errors.New("unexpected token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenNotYetValid     = errors.New("token is not yet valid")
	ErrTokenIsNotAccess     = errors.New("refresh token cannot be used for access")
	ErrTokenIsNotRefresh    = errors.New("token is not a refresh token")

	// Authentication
	ErrEmptyAuthHeader    = errors.New("authorization header is missing")
	ErrInvalidAuthHeader  = errors.New("malformed authorization header")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")

	// ErrProfileMissing means an authenticated account has no role profile.
	// This is a data-integrity problem, not a normal denial, and is logged
	// separately from ErrForbidden.
	ErrProfileMissing = errors.New("user profile is missing")

	// Context
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")
	ErrInvalidUserID           = errors.New("invalid user id")

	// Common
	ErrNotFound   = errors.New("record not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

// ValidationError rejects an operation before any mutation happens.
// Field names the offending input field when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation as a field-level conflict.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

func NewConflictError(field, format string, args ...interface{}) error {
	return &ConflictError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// HttpError carries an HTTP status alongside the wrapped cause. Controllers
// build it at the boundary; utils.ErrorResponse renders it.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}
