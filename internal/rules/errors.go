package rules

import (
	"errors"
	"net/http"
)

// Domain errors for rule catalog operations.
var (
	ErrNotFound              = errors.New("validation rule not found")
	ErrDuplicate             = errors.New("validation rule already exists")
	ErrUnknownRuleType       = errors.New("unknown rule type")
	ErrMissingDocumentType   = errors.New("document type required")
	ErrMissingFieldName      = errors.New("field name required")
	ErrMissingReferenceField = errors.New("reference field required for cross-reference rules")
)

// MapHTTPStatus maps rule domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownRuleType),
		errors.Is(err, ErrMissingDocumentType),
		errors.Is(err, ErrMissingFieldName),
		errors.Is(err, ErrMissingReferenceField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
