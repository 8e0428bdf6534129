package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a rule repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "rules"),
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
) (*pagination.PageResult[Rule], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "FieldName", "DocumentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count rules: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRule)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Rule, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rule, err := repository.QueryOne(ctx, r.db, q, args, scanRule)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rule, nil
}

func (r *repo) ListActive(ctx context.Context, documentType string) ([]Rule, error) {
	active := true
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("DocumentType", documentType).
		WhereEquals("IsActive", &active).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanRule)
	if err != nil {
		return nil, fmt.Errorf("query active rules: %w", err)
	}
	return items, nil
}

func (r *repo) ListActiveByDocumentTypes(ctx context.Context, documentTypes []string) ([]Rule, error) {
	if len(documentTypes) == 0 {
		return nil, nil
	}

	active := true
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereIn("DocumentType", anyValues(documentTypes)).
		WhereEquals("IsActive", &active).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanRule)
	if err != nil {
		return nil, fmt.Errorf("query rules by document types: %w", err)
	}
	return items, nil
}

func (r *repo) CountByDocumentTypes(ctx context.Context, documentTypes []string) (total, active int, err error) {
	if len(documentTypes) == 0 {
		return 0, 0, nil
	}

	qb := query.
		NewBuilder(projection).
		WhereIn("DocumentType", anyValues(documentTypes))

	countSQL, countArgs := qb.BuildCount()
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("count rules: %w", err)
	}

	isActive := true
	activeSQL, activeArgs := query.
		NewBuilder(projection).
		WhereIn("DocumentType", anyValues(documentTypes)).
		WhereEquals("IsActive", &isActive).
		BuildCount()
	if err := r.db.QueryRowContext(ctx, activeSQL, activeArgs...).Scan(&active); err != nil {
		return 0, 0, fmt.Errorf("count active rules: %w", err)
	}

	return total, active, nil
}

func (r *repo) SetActiveByDocumentTypes(ctx context.Context, documentTypes []string, active bool) (int, error) {
	if len(documentTypes) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(documentTypes)+1)
	args = append(args, active)
	placeholders := make([]string, len(documentTypes))
	for i, dt := range documentTypes {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, dt)
	}

	q := fmt.Sprintf(
		"UPDATE validation_rules SET is_active = $1 WHERE document_type IN (%s)",
		strings.Join(placeholders, ", "),
	)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk toggle rules: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk toggle rules: %w", err)
	}

	r.logger.Info("rules bulk toggled", "document_types", documentTypes, "is_active", active, "count", n)
	return int(n), nil
}

func anyValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

const insertRule = `
	INSERT INTO validation_rules(
		id, name, document_type, field_name, rule_type, rule_pattern,
		description, reference_field, calculation_type, tolerance,
		auto_created, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
	RETURNING id, name, document_type, field_name, rule_type, rule_pattern,
		description, reference_field, calculation_type, tolerance,
		auto_created, is_active, created_at`

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Rule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	args := insertArgs(cmd)
	rule, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Rule, error) {
		return repository.QueryOne(ctx, tx, insertRule, args, scanRule)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("rule created",
		"id", rule.ID,
		"document_type", rule.DocumentType,
		"field_name", rule.FieldName,
		"rule_type", rule.RuleType,
	)
	return &rule, nil
}

func (r *repo) GetOrCreate(ctx context.Context, cmd CreateCommand) (*Rule, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	rule, err := r.Create(ctx, cmd)
	if err == nil {
		return rule, true, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return nil, false, err
	}

	// Lost the race or the rule already existed: fetch the winner.
	q, args := query.
		NewBuilder(projection).
		WhereEquals("DocumentType", cmd.DocumentType).
		WhereEquals("FieldName", cmd.FieldName).
		WhereEquals("RuleType", string(cmd.RuleType)).
		BuildSingleOrNull()

	existing, err := repository.QueryOne(ctx, r.db, q, args, scanRule)
	if err != nil {
		return nil, false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &existing, false, nil
}

func (r *repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Rule, error) {
	q := `
		UPDATE validation_rules SET is_active = $2 WHERE id = $1
		RETURNING id, name, document_type, field_name, rule_type, rule_pattern,
			description, reference_field, calculation_type, tolerance,
			auto_created, is_active, created_at`

	rule, err := repository.QueryOne(ctx, r.db, q, []any{id, active}, scanRule)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("rule activation toggled", "id", id, "is_active", active)
	return &rule, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM validation_rules WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("rule deleted", "id", id)
	return nil
}

func insertArgs(cmd CreateCommand) []any {
	return []any{
		uuid.New(),
		cmd.Name,
		cmd.DocumentType,
		cmd.FieldName,
		string(cmd.RuleType),
		cmd.RulePattern,
		cmd.Description,
		cmd.ReferenceField,
		cmd.CalculationType,
		cmd.Tolerance,
		cmd.AutoCreated,
	}
}
