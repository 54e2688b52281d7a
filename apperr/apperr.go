// Package apperr defines the error taxonomy shared by all services.
//
// Primary-entity write failures always surface to the caller as one of these;
// secondary effects (audit log rows, emails, broadcasts) are best-effort and
// never use this package to abort an operation.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrEmailInUse     = errors.New("email already in use")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrPermission     = errors.New("permission denied")
)

// Validation wraps ErrValidation with a caller-facing detail message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the entity that was missing.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Store wraps any other substrate failure.
func Store(op string, err error) error {
	return fmt.Errorf("store %s: %w", op, err)
}

// HTTPStatus maps an error to the response code handlers should use.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
