package business

import (
	"errors"
	"net/http"
)

// ErrUnknownType is returned when a business type key or document type has
// no catalog entry.
var ErrUnknownType = errors.New("unknown business type")

// MapHTTPStatus maps business domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownType) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
