package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the error taxonomy used across repositories and
// handlers. Lower layers wrap these with fmt.Errorf("...: %w", ...) so
// callers can classify with errors.Is without losing the message.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidAction = errors.New("invalid action")
	ErrStore         = errors.New("store failure")
)

// HTTPStatus maps a classified error to its HTTP response code.
// Unclassified errors are treated as store failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
