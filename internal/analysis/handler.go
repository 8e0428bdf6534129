package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/chancerylabs/chancery/pkg/handlers"
	"github.com/chancerylabs/chancery/pkg/routes"
)

var errMissingDocumentType = errors.New("document type is required")

// Handler provides HTTP endpoints for pattern analysis operations.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// AnalyzeRequest carries optional overrides for an analysis run.
type AnalyzeRequest struct {
	MinSamples int `json:"min_samples"`
}

// AutoCreateRequest carries optional overrides for an auto-create run.
type AutoCreateRequest struct {
	Threshold float64 `json:"confidence_threshold"`
}

// NewHandler creates a Handler with the given service and logger.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{documentType}", Handler: h.Analyze},
			{Method: "POST", Pattern: "/{documentType}/rules", Handler: h.AutoCreate},
		},
	}
}

// Analyze runs pattern induction over processed documents of a type. The
// request body is optional.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	documentType := r.PathValue("documentType")
	if documentType == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingDocumentType)
		return
	}

	var req AnalyzeRequest
	if err := decodeOptional(r.Body, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.svc.Analyze(r.Context(), documentType, req.MinSamples)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AutoCreate materializes high-confidence suggestions as validation rules.
// The request body is optional.
func (h *Handler) AutoCreate(w http.ResponseWriter, r *http.Request) {
	documentType := r.PathValue("documentType")
	if documentType == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingDocumentType)
		return
	}

	var req AutoCreateRequest
	if err := decodeOptional(r.Body, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.svc.AutoCreate(r.Context(), documentType, req.Threshold)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// decodeOptional decodes a JSON request body into v, tolerating an empty body.
func decodeOptional(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
