// Package executions implements workflow execution records: the persisted
// state of a document moving through a workflow. The engine package drives
// transitions; this package owns storage, the typed execution data payload,
// and the single-active-execution constraint.
package executions

import (
	"time"

	"github.com/google/uuid"
)

// Execution status values. Completed, failed, and cancelled are terminal.
const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Execution is a single run of a workflow over a document.
type Execution struct {
	ID          uuid.UUID  `json:"id"`
	DocumentID  uuid.UUID  `json:"document_id"`
	WorkflowID  uuid.UUID  `json:"workflow_id"`
	Status      string     `json:"status"`
	CurrentStep *uuid.UUID `json:"current_step"`
	Data        Data       `json:"execution_data"`
	ErrorLog    []LogEntry `json:"error_log"`
	StartedBy   string     `json:"started_by"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Data is the typed execution state carried across steps.
type Data struct {
	StepsCompleted       int                 `json:"steps_completed"`
	StepsSkipped         int                 `json:"steps_skipped"`
	AutoApproved         bool                `json:"auto_approved,omitempty"`
	CurrentApprovalLevel int                 `json:"current_approval_level,omitempty"`
	PendingApprovals     []uuid.UUID         `json:"pending_approvals,omitempty"`
	IntegrationResults   []IntegrationResult `json:"integration_results,omitempty"`
}

// IntegrationResult records one integration step dispatch.
type IntegrationResult struct {
	StepID   uuid.UUID `json:"step_id"`
	System   string    `json:"system"`
	Success  bool      `json:"success"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error,omitempty"`
}

// LogEntry is a timestamped failure note appended to an execution.
type LogEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// CreateCommand carries the data needed to start an execution.
type CreateCommand struct {
	DocumentID uuid.UUID
	WorkflowID uuid.UUID
	StartedBy  string
}
