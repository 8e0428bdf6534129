package workflows

import (
	"errors"
	"net/http"
)

// Domain errors for workflow definition operations.
var (
	ErrNotFound           = errors.New("workflow not found")
	ErrStepNotFound       = errors.New("workflow step not found")
	ErrDuplicate          = errors.New("workflow already exists")
	ErrDuplicateStepOrder = errors.New("step order already used in workflow")
	ErrMissingName        = errors.New("name is required")
	ErrMissingThreshold   = errors.New("approval threshold is required when auto-approval is enabled")
	ErrUnknownStepType    = errors.New("unknown step type")
	ErrUnknownOperator    = errors.New("unknown condition operator")
	ErrMissingApprover    = errors.New("approval steps require an approver or approval group")
	ErrMissingIntegration = errors.New("integration steps require an integration system")
)

// MapHTTPStatus maps workflow domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStepNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrDuplicateStepOrder):
		return http.StatusConflict
	case errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingThreshold),
		errors.Is(err, ErrUnknownStepType),
		errors.Is(err, ErrUnknownOperator),
		errors.Is(err, ErrMissingApprover),
		errors.Is(err, ErrMissingIntegration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
