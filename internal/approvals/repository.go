package approvals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

const approvalColumns = `id, document_id, workflow_step_id, execution_id, approver,
		approval_level, status, comments, due_date, delegated_to, created_at, reviewed_at`

const insertApproval = `
	INSERT INTO document_approvals(id, document_id, workflow_step_id, execution_id, approver, approval_level, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + approvalColumns

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an approval repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "approvals"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Approval], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Approver")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count approvals: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanApproval)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Approval, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanApproval)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Approval, error) {
	if cmd.Approver == "" {
		return nil, ErrMissingApprover
	}

	args := []any{
		uuid.New(),
		cmd.DocumentID,
		cmd.WorkflowStepID,
		cmd.ExecutionID,
		cmd.Approver,
		cmd.ApprovalLevel,
		cmd.DueDate,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Approval, error) {
		return repository.QueryOne(ctx, tx, insertApproval, args, scanApproval)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("approval requested",
		"id", a.ID,
		"execution_id", a.ExecutionID,
		"approver", a.Approver,
		"level", a.ApprovalLevel,
	)
	return &a, nil
}

func (r *repo) ListPending(ctx context.Context, approver string) ([]Approval, error) {
	q := `
		SELECT ` + approvalColumns + `
		FROM document_approvals
		WHERE approver = $1 AND status = $2
		ORDER BY created_at`

	items, err := repository.QueryMany(ctx, r.db, q, []any{approver, StatusPending}, scanApproval)
	if err != nil {
		return nil, fmt.Errorf("query pending approvals for %s: %w", approver, err)
	}

	return items, nil
}

func (r *repo) ListByExecution(ctx context.Context, executionID uuid.UUID) ([]Approval, error) {
	q := `
		SELECT ` + approvalColumns + `
		FROM document_approvals
		WHERE execution_id = $1
		ORDER BY approval_level, created_at`

	items, err := repository.QueryMany(ctx, r.db, q, []any{executionID}, scanApproval)
	if err != nil {
		return nil, fmt.Errorf("query approvals for execution %s: %w", executionID, err)
	}

	return items, nil
}

func (r *repo) CountPendingAtLevel(ctx context.Context, executionID uuid.UUID, level int) (int, error) {
	q := `
		SELECT COUNT(*)
		FROM document_approvals
		WHERE execution_id = $1 AND approval_level = $2 AND status = $3`

	var count int
	err := r.db.QueryRowContext(ctx, q, executionID, level, StatusPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending approvals: %w", err)
	}

	return count, nil
}

func (r *repo) Resolve(ctx context.Context, id uuid.UUID, approver, status string, comments *string) (*Approval, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrUnknownAction
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Approver != approver {
		return nil, ErrNotAssigned
	}

	a, err := r.swap(ctx, r.db, id, status, comments, nil)
	if err != nil {
		return nil, err
	}

	r.logger.Info("approval resolved",
		"id", a.ID,
		"execution_id", a.ExecutionID,
		"approver", approver,
		"status", status,
	)
	return a, nil
}

func (r *repo) Delegate(ctx context.Context, id uuid.UUID, approver, delegate string, comments *string) (*Approval, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Approver != approver {
		return nil, ErrNotAssigned
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Approval, error) {
		if _, err := r.swap(ctx, tx, id, StatusDelegated, comments, &delegate); err != nil {
			return Approval{}, err
		}

		args := []any{
			uuid.New(),
			current.DocumentID,
			current.WorkflowStepID,
			current.ExecutionID,
			delegate,
			current.ApprovalLevel,
			current.DueDate,
		}
		return repository.QueryOne(ctx, tx, insertApproval, args, scanApproval)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("approval delegated",
		"id", id,
		"execution_id", created.ExecutionID,
		"from", approver,
		"to", delegate,
	)
	return &created, nil
}

// swap performs the compare-and-swap out of pending. A missing row means the
// approval either does not exist or was already resolved; the caller has
// already confirmed existence, so no row maps to ErrAlreadyResolved.
func (r *repo) swap(
	ctx context.Context,
	q repository.Querier,
	id uuid.UUID,
	status string,
	comments *string,
	delegatedTo *string,
) (*Approval, error) {
	stmt := `
		UPDATE document_approvals
		SET status = $2,
			comments = $3,
			delegated_to = $4,
			reviewed_at = now()
		WHERE id = $1 AND status = $5
		RETURNING ` + approvalColumns

	a, err := repository.QueryOne(
		ctx, q, stmt,
		[]any{id, status, comments, delegatedTo, StatusPending},
		scanApproval,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyResolved
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &a, nil
}
