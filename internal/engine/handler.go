package engine

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/approvals"
	"github.com/chancerylabs/chancery/pkg/handlers"
	"github.com/chancerylabs/chancery/pkg/routes"
)

// Handler provides the HTTP endpoints that mutate workflow state: starting
// an execution, responding to an approval, and cancelling an execution.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// StartRequest carries the actor starting an execution.
type StartRequest struct {
	StartedBy string `json:"started_by"`
}

// CancelRequest carries the actor cancelling an execution.
type CancelRequest struct {
	CancelledBy string `json:"cancelled_by"`
}

// NewHandler creates a Handler with the given engine and logger.
func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With("handler", "engine"),
	}
}

// Routes returns the engine's action routes. They live alongside the read
// routes of the documents, approvals, and executions handlers on the shared
// mux; prefixes overlap but patterns do not.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/documents/{id}/workflows/{workflowId}/start", Handler: h.Start},
			{Method: "POST", Pattern: "/approvals/{id}/respond", Handler: h.Respond},
			{Method: "POST", Pattern: "/executions/{id}/cancel", Handler: h.Cancel},
		},
	}
}

// Start begins a workflow execution for a document.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	workflowID, err := uuid.Parse(r.PathValue("workflowId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	exec, err := h.engine.Start(r.Context(), documentID, workflowID, req.StartedBy)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, exec)
}

// Respond applies an approver's decision to a pending approval.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var decision approvals.Decision
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	exec, err := h.engine.HandleApproval(r.Context(), id, decision)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, exec)
}

// Cancel terminates a running execution.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	exec, err := h.engine.Cancel(r.Context(), id, req.CancelledBy)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, exec)
}
