package business

import (
	"log/slog"
	"net/http"

	"github.com/chancerylabs/chancery/pkg/handlers"
	"github.com/chancerylabs/chancery/pkg/routes"
)

// Handler provides HTTP endpoints for business type operations.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a Handler with the given service and logger.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("handler", "business"),
	}
}

// Routes returns the route group definition for business type endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/business-types",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{businessType}", Handler: h.Find},
			{Method: "GET", Pattern: "/{businessType}/integrations", Handler: h.Integrations},
			{Method: "POST", Pattern: "/{businessType}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{businessType}/deactivate", Handler: h.Deactivate},
		},
	}
}

// List returns every business type with its configuration state.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.svc.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overviews)
}

// Find returns the rules, workflows, and templates of one business type.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Find(r.Context(), r.PathValue("businessType"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Integrations returns ranked integration templates for a business type.
func (h *Handler) Integrations(w http.ResponseWriter, r *http.Request) {
	scored, err := h.svc.RecommendedIntegrations(r.PathValue("businessType"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, scored)
}

// Activate enables every rule and workflow for a business type.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// Deactivate disables every rule and workflow for a business type.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, active bool) {
	result, err := h.svc.SetActive(r.Context(), r.PathValue("businessType"), active)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
