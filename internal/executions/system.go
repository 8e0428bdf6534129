package executions

import (
	"context"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
)

// System defines the public contract for execution record operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Execution], error)

	Find(ctx context.Context, id uuid.UUID) (*Execution, error)

	// Create starts a new execution record. Returns ErrActiveExists when the
	// document already has a non-terminal execution for the workflow.
	Create(ctx context.Context, cmd CreateCommand) (*Execution, error)

	// Transition persists a status change together with the current step and
	// execution data. Terminal statuses stamp completed_at. Returns
	// ErrTerminal when the execution has already finished.
	Transition(ctx context.Context, id uuid.UUID, status string, currentStep *uuid.UUID, data Data) (*Execution, error)

	// AppendError adds a timestamped entry to the execution's error log.
	AppendError(ctx context.Context, id uuid.UUID, message string) error
}
