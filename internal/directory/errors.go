package directory

import (
	"errors"
	"net/http"
)

// Domain errors for approval group operations.
var (
	ErrNotFound    = errors.New("approval group not found")
	ErrDuplicate   = errors.New("approval group already exists")
	ErrMissingName = errors.New("name is required")
	ErrNoMembers   = errors.New("at least one member is required")
)

// MapHTTPStatus maps directory domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrNoMembers):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
