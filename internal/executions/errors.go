package executions

import (
	"errors"
	"net/http"
)

// Domain errors for execution operations.
var (
	ErrNotFound     = errors.New("workflow execution not found")
	ErrActiveExists = errors.New("document already has an active execution for this workflow")
	ErrTerminal     = errors.New("execution has already finished")
)

// MapHTTPStatus maps execution domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrActiveExists), errors.Is(err, ErrTerminal):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
