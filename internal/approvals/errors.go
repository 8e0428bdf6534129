package approvals

import (
	"errors"
	"net/http"
)

// Domain errors for approval operations.
var (
	ErrNotFound        = errors.New("approval not found")
	ErrDuplicate       = errors.New("approval already exists")
	ErrAlreadyResolved = errors.New("approval has already been resolved")
	ErrNotAssigned     = errors.New("approver is not assigned to this approval")
	ErrMissingApprover = errors.New("approver is required")
	ErrMissingDelegate = errors.New("delegate_to is required for delegation")
	ErrUnknownAction   = errors.New("unknown decision action")
)

// MapHTTPStatus maps approval domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, ErrMissingApprover),
		errors.Is(err, ErrMissingDelegate),
		errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
