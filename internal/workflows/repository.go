package workflows

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

const workflowColumns = `id, name, description, is_active, requires_approval,
		approval_threshold, auto_approve_below_threshold, created_at`

const stepColumns = `id, workflow_id, name, description, step_order, step_type,
		condition_field, condition_value, condition_operator, approver,
		approval_group, requires_all_approvers, integration_system,
		integration_config, created_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a workflow repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "workflows"),
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
) (*pagination.PageResult[Workflow], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count workflows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	flows, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}

	result := pagination.NewPageResult(flows, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Workflow, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO workflows(id, name, description, requires_approval, approval_threshold, auto_approve_below_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + workflowColumns

	args := []any{
		uuid.New(),
		cmd.Name,
		cmd.Description,
		cmd.RequiresApproval,
		cmd.ApprovalThreshold,
		cmd.AutoApproveBelowThreshold,
	}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, args, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow created", "id", w.ID, "name", w.Name)
	return &w, nil
}

func (r *repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Workflow, error) {
	q := `
		UPDATE workflows
		SET is_active = $2
		WHERE id = $1
		RETURNING ` + workflowColumns

	w, err := repository.QueryOne(ctx, r.db, q, []any{id, active}, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow active state changed", "id", id, "is_active", active)
	return &w, nil
}

func (r *repo) ListByNameContains(ctx context.Context, fragment string) ([]Workflow, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereContains("Name", &fragment).
		Build()

	flows, err := repository.QueryMany(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query workflows by name: %w", err)
	}
	return flows, nil
}

func (r *repo) SetActiveByNameContains(ctx context.Context, fragment string, active bool) (int, error) {
	q := "UPDATE workflows SET is_active = $1 WHERE name ILIKE $2"

	res, err := r.db.ExecContext(ctx, q, active, "%"+fragment+"%")
	if err != nil {
		return 0, fmt.Errorf("bulk toggle workflows: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk toggle workflows: %w", err)
	}

	r.logger.Info("workflows bulk toggled", "fragment", fragment, "is_active", active, "count", n)
	return int(n), nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM workflows WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow deleted", "id", id)
	return nil
}

func (r *repo) ListSteps(ctx context.Context, workflowID uuid.UUID) ([]Step, error) {
	q := `
		SELECT ` + stepColumns + `
		FROM workflow_steps
		WHERE workflow_id = $1
		ORDER BY step_order`

	steps, err := repository.QueryMany(ctx, r.db, q, []any{workflowID}, scanStep)
	if err != nil {
		return nil, fmt.Errorf("query steps for workflow %s: %w", workflowID, err)
	}

	return steps, nil
}

func (r *repo) FindStep(ctx context.Context, stepID uuid.UUID) (*Step, error) {
	q := `
		SELECT ` + stepColumns + `
		FROM workflow_steps
		WHERE id = $1`

	st, err := repository.QueryOne(ctx, r.db, q, []any{stepID}, scanStep)
	if err != nil {
		return nil, repository.MapError(err, ErrStepNotFound, ErrDuplicateStepOrder)
	}
	return &st, nil
}

func (r *repo) CreateStep(ctx context.Context, workflowID uuid.UUID, cmd StepCommand) (*Step, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := r.Find(ctx, workflowID); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO workflow_steps(
			id, workflow_id, name, description, step_order, step_type,
			condition_field, condition_value, condition_operator, approver,
			approval_group, requires_all_approvers, integration_system, integration_config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + stepColumns

	args := []any{
		uuid.New(),
		workflowID,
		cmd.Name,
		cmd.Description,
		cmd.StepOrder,
		cmd.StepType,
		cmd.ConditionField,
		cmd.ConditionValue,
		cmd.ConditionOperator,
		cmd.Approver,
		cmd.ApprovalGroup,
		cmd.RequiresAllApprovers,
		cmd.IntegrationSystem,
		cmd.IntegrationConfig,
	}

	st, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Step, error) {
		return repository.QueryOne(ctx, tx, q, args, scanStep)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrStepNotFound, ErrDuplicateStepOrder)
	}

	r.logger.Info("workflow step created",
		"id", st.ID,
		"workflow_id", workflowID,
		"step_order", st.StepOrder,
		"step_type", st.StepType,
	)
	return &st, nil
}

func (r *repo) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM workflow_steps WHERE id = $1",
			stepID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrStepNotFound, ErrDuplicateStepOrder)
	}

	r.logger.Info("workflow step deleted", "id", stepID)
	return nil
}
