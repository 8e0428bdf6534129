package executions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

const executionColumns = `id, document_id, workflow_id, status, current_step,
		execution_data, error_log, started_by, started_at, completed_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an execution repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "executions"),
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
) (*pagination.PageResult[Execution], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "StartedBy")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count executions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanExecution)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Execution, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExecution)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrActiveExists)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Execution, error) {
	q := `
		INSERT INTO workflow_executions(id, document_id, workflow_id, started_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + executionColumns

	args := []any{uuid.New(), cmd.DocumentID, cmd.WorkflowID, cmd.StartedBy}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Execution, error) {
		return repository.QueryOne(ctx, tx, q, args, scanExecution)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrActiveExists)
	}

	r.logger.Info("execution started",
		"id", e.ID,
		"document_id", e.DocumentID,
		"workflow_id", e.WorkflowID,
		"started_by", e.StartedBy,
	)
	return &e, nil
}

func (r *repo) Transition(ctx context.Context, id uuid.UUID, status string, currentStep *uuid.UUID, data Data) (*Execution, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode execution data: %w", err)
	}

	var completedAt *time.Time
	if Terminal(status) {
		now := time.Now().UTC()
		completedAt = &now
	}

	q := `
		UPDATE workflow_executions
		SET status = $2,
			current_step = $3,
			execution_data = $4,
			completed_at = $5
		WHERE id = $1
			AND status NOT IN ($6, $7, $8)
		RETURNING ` + executionColumns

	args := []any{
		id, status, currentStep, raw, completedAt,
		StatusCompleted, StatusFailed, StatusCancelled,
	}

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExecution)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := r.Find(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, ErrTerminal
		}
		return nil, repository.MapError(err, ErrNotFound, ErrActiveExists)
	}

	r.logger.Info("execution transitioned",
		"id", e.ID,
		"status", e.Status,
		"current_step", e.CurrentStep,
	)
	return &e, nil
}

func (r *repo) AppendError(ctx context.Context, id uuid.UUID, message string) error {
	entry, err := json.Marshal([]LogEntry{{
		At:      time.Now().UTC(),
		Message: message,
	}})
	if err != nil {
		return fmt.Errorf("encode error log entry: %w", err)
	}

	q := `
		UPDATE workflow_executions
		SET error_log = error_log || $2::jsonb
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, q, id, entry); err != nil {
		return fmt.Errorf("append execution error: %w", err)
	}

	return nil
}
