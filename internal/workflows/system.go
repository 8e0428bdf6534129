package workflows

import (
	"context"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
)

// System defines the public contract for workflow definition operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Workflow], error)

	Find(ctx context.Context, id uuid.UUID) (*Workflow, error)
	Create(ctx context.Context, cmd CreateCommand) (*Workflow, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Workflow, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByNameContains returns workflows whose name contains the fragment,
	// case-insensitively.
	ListByNameContains(ctx context.Context, fragment string) ([]Workflow, error)

	// SetActiveByNameContains toggles every workflow whose name contains the
	// fragment, returning the number of workflows changed.
	SetActiveByNameContains(ctx context.Context, fragment string, active bool) (int, error)

	// ListSteps returns a workflow's steps ordered by step order.
	ListSteps(ctx context.Context, workflowID uuid.UUID) ([]Step, error)
	FindStep(ctx context.Context, stepID uuid.UUID) (*Step, error)
	CreateStep(ctx context.Context, workflowID uuid.UUID, cmd StepCommand) (*Step, error)
	DeleteStep(ctx context.Context, stepID uuid.UUID) error
}
