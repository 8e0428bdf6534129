package engine

import (
	"errors"
	"net/http"

	"github.com/chancerylabs/chancery/internal/approvals"
	"github.com/chancerylabs/chancery/internal/documents"
	"github.com/chancerylabs/chancery/internal/executions"
	"github.com/chancerylabs/chancery/internal/workflows"
)

// Engine errors.
var (
	ErrWorkflowInactive     = errors.New("workflow is not active")
	ErrDocumentNotProcessed = errors.New("document has not been processed")
	ErrMissingStartedBy     = errors.New("started_by is required")
	ErrGroupExhausted       = errors.New("approval group has no member at the requested level")
)

// MapHTTPStatus maps engine and underlying domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrWorkflowInactive),
		errors.Is(err, ErrDocumentNotProcessed),
		errors.Is(err, ErrMissingStartedBy),
		errors.Is(err, ErrGroupExhausted):
		return http.StatusBadRequest
	case errors.Is(err, documents.ErrNotFound),
		errors.Is(err, workflows.ErrNotFound),
		errors.Is(err, workflows.ErrStepNotFound),
		errors.Is(err, executions.ErrNotFound),
		errors.Is(err, approvals.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, executions.ErrActiveExists),
		errors.Is(err, executions.ErrTerminal),
		errors.Is(err, approvals.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, approvals.ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, approvals.ErrMissingApprover),
		errors.Is(err, approvals.ErrMissingDelegate),
		errors.Is(err, approvals.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
