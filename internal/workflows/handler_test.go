package workflows_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/workflows"
	"github.com/chancerylabs/chancery/pkg/pagination"
)

type mockSystem struct {
	workflows.System
	findStepFn   func(ctx context.Context, stepID uuid.UUID) (*workflows.Step, error)
	deleteStepFn func(ctx context.Context, stepID uuid.UUID) error
	listStepsFn  func(ctx context.Context, workflowID uuid.UUID) ([]workflows.Step, error)
}

func (m *mockSystem) FindStep(ctx context.Context, stepID uuid.UUID) (*workflows.Step, error) {
	return m.findStepFn(ctx, stepID)
}

func (m *mockSystem) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	return m.deleteStepFn(ctx, stepID)
}

func (m *mockSystem) ListSteps(ctx context.Context, workflowID uuid.UUID) ([]workflows.Step, error) {
	return m.listStepsFn(ctx, workflowID)
}

func newTestHandler(sys workflows.System) *workflows.Handler {
	return workflows.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *workflows.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerRoutesRegister(t *testing.T) {
	// ServeMux panics on conflicting patterns at registration time, so a
	// full registration pass is the assertion.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("route registration panicked: %v", r)
		}
	}()
	setupMux(newTestHandler(&mockSystem{}))
}

func TestHandlerStepRoutes(t *testing.T) {
	flowID := uuid.New()
	step := workflows.Step{
		ID:         uuid.New(),
		WorkflowID: flowID,
		Name:       "sign-off",
		StepOrder:  1,
		StepType:   workflows.StepApproval,
	}

	t.Run("list steps by workflow", func(t *testing.T) {
		sys := &mockSystem{
			listStepsFn: func(_ context.Context, workflowID uuid.UUID) ([]workflows.Step, error) {
				if workflowID != flowID {
					return nil, workflows.ErrNotFound
				}
				return []workflows.Step{step}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/workflows/"+flowID.String()+"/steps", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got []workflows.Step
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].ID != step.ID {
			t.Errorf("steps = %v, want the single sign-off step", got)
		}
	})

	t.Run("find step under workflow path", func(t *testing.T) {
		sys := &mockSystem{
			findStepFn: func(_ context.Context, stepID uuid.UUID) (*workflows.Step, error) {
				if stepID != step.ID {
					return nil, workflows.ErrStepNotFound
				}
				return &step, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/workflows/"+flowID.String()+"/steps/"+step.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got workflows.Step
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != step.ID {
			t.Errorf("id = %v, want %v", got.ID, step.ID)
		}
	})

	t.Run("delete step under workflow path", func(t *testing.T) {
		var capturedID uuid.UUID
		sys := &mockSystem{
			deleteStepFn: func(_ context.Context, stepID uuid.UUID) error {
				capturedID = stepID
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/workflows/"+flowID.String()+"/steps/"+step.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if capturedID != step.ID {
			t.Errorf("id = %v, want %v", capturedID, step.ID)
		}
	})

	t.Run("invalid step uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/workflows/"+flowID.String()+"/steps/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
