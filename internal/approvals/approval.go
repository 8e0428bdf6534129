// Package approvals implements document approval records: the individual
// approve/reject/delegate decisions requested by workflow executions.
// Routing logic (who gets asked, escalation, barriers) lives in the engine
// package; this package owns persistence and the compare-and-swap status
// transition that keeps concurrent responses safe.
package approvals

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Approval status values. An approval leaves pending exactly once.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusDelegated = "delegated"
)

// Decision actions accepted by the respond endpoint.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionDelegate = "delegate"
)

// Approval is a single pending or resolved approval request.
type Approval struct {
	ID             uuid.UUID  `json:"id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	WorkflowStepID uuid.UUID  `json:"workflow_step_id"`
	ExecutionID    uuid.UUID  `json:"execution_id"`
	Approver       string     `json:"approver"`
	ApprovalLevel  int        `json:"approval_level"`
	Status         string     `json:"status"`
	Comments       *string    `json:"comments"`
	DueDate        *time.Time `json:"due_date"`
	DelegatedTo    *string    `json:"delegated_to"`
	CreatedAt      time.Time  `json:"created_at"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
}

// CreateCommand carries the data needed to request an approval.
type CreateCommand struct {
	DocumentID     uuid.UUID
	WorkflowStepID uuid.UUID
	ExecutionID    uuid.UUID
	Approver       string
	ApprovalLevel  int
	DueDate        *time.Time
}

// Decision is an approver's response to a pending approval.
type Decision struct {
	Action     string `json:"action"`
	Approver   string `json:"approver"`
	Comments   string `json:"comments"`
	DelegateTo string `json:"delegate_to"`
}

// Validate checks the decision for structural problems.
func (d Decision) Validate() error {
	if strings.TrimSpace(d.Approver) == "" {
		return ErrMissingApprover
	}

	switch d.Action {
	case ActionApprove, ActionReject:
		return nil
	case ActionDelegate:
		if strings.TrimSpace(d.DelegateTo) == "" {
			return ErrMissingDelegate
		}
		return nil
	default:
		return ErrUnknownAction
	}
}
