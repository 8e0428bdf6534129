// Package routes declares route groups as data so handlers can describe
// their surface once and have it both registered on a mux and rendered
// into the OpenAPI document.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
