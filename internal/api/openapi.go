package api

import (
	"net/http"
	"strings"

	"github.com/chancerylabs/chancery/internal/config"
	"github.com/chancerylabs/chancery/pkg/openapi"
	"github.com/chancerylabs/chancery/pkg/routes"
)

// registerSpec generates an OpenAPI document from the registered route
// groups and serves it at /openapi.json. Operation detail is intentionally
// shallow; the spec documents the surface, not the payloads.
func registerSpec(mux *http.ServeMux, cfg *config.Config, groups []routes.Group) {
	spec := buildSpec(cfg, groups)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		// Spec generation is static; failure here is a programming error.
		panic(err)
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
}

func buildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec("Chancery API", cfg.Version)
	spec.SetDescription("Business document validation, workflow, and pattern analysis service.")
	spec.AddServer(cfg.API.BasePath)

	for _, group := range groups {
		for _, route := range group.Routes {
			path := group.Prefix + route.Pattern
			if path == "" {
				continue
			}

			item, ok := spec.Paths[path]
			if !ok {
				item = &openapi.PathItem{}
				spec.Paths[path] = item
			}

			op := &openapi.Operation{
				Summary:    summarize(route.Method, path),
				Parameters: pathParams(path),
				Responses:  responses(route.Method, path),
			}

			if route.Method == http.MethodGet && !strings.Contains(path, "{") {
				op.Parameters = append(op.Parameters, listParams()...)
			}

			if strings.HasSuffix(path, "/search") {
				op.RequestBody = openapi.RequestBodyJSON("PageRequest", false)
			}

			switch route.Method {
			case http.MethodGet:
				item.Get = op
			case http.MethodPost:
				item.Post = op
			case http.MethodPut:
				item.Put = op
			case http.MethodDelete:
				item.Delete = op
			}
		}
	}

	return spec
}

func pathParams(path string) []*openapi.Parameter {
	var params []*openapi.Parameter
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			params = append(params, openapi.PathParam(name, name+" path parameter"))
		}
	}
	return params
}

// listParams documents the pagination query parameters collection
// endpoints accept.
func listParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search query", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
	}
}

func responses(method, path string) map[int]*openapi.Response {
	resp := map[int]*openapi.Response{
		http.StatusOK: {Description: "Success"},
	}
	if strings.Contains(path, "{") {
		resp[http.StatusNotFound] = openapi.ResponseRef("NotFound")
	}
	if method == http.MethodPost || method == http.MethodPut {
		resp[http.StatusBadRequest] = openapi.ResponseRef("BadRequest")
	}
	return resp
}

func summarize(method, path string) string {
	return method + " " + path
}
