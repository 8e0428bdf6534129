package approvals

import (
	"context"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
)

// System defines the public contract for approval record operations.
// Resolve and Delegate are the only paths out of pending; both are
// compare-and-swap so concurrent responses to the same approval cannot
// both win.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Approval], error)

	Find(ctx context.Context, id uuid.UUID) (*Approval, error)
	Create(ctx context.Context, cmd CreateCommand) (*Approval, error)

	// ListPending returns an approver's unresolved approvals, oldest first.
	ListPending(ctx context.Context, approver string) ([]Approval, error)

	// ListByExecution returns every approval raised by an execution.
	ListByExecution(ctx context.Context, executionID uuid.UUID) ([]Approval, error)

	// CountPendingAtLevel reports how many approvals remain pending for an
	// execution at a given approval level.
	CountPendingAtLevel(ctx context.Context, executionID uuid.UUID, level int) (int, error)

	// Resolve transitions a pending approval to approved or rejected on
	// behalf of the assigned approver. Returns ErrNotAssigned when the
	// responder is not the assigned approver and ErrAlreadyResolved when
	// the approval has left pending.
	Resolve(ctx context.Context, id uuid.UUID, approver, status string, comments *string) (*Approval, error)

	// Delegate marks a pending approval delegated and creates a new pending
	// approval for the delegate at the same level, in one transaction.
	// Returns the new approval.
	Delegate(ctx context.Context, id uuid.UUID, approver, delegate string, comments *string) (*Approval, error)
}
