package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

const groupColumns = `id, name, members, created_at`

// System defines the public contract for approval group operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Group], error)

	Find(ctx context.Context, id uuid.UUID) (*Group, error)
	Create(ctx context.Context, cmd CreateCommand) (*Group, error)
	UpdateMembers(ctx context.Context, id uuid.UUID, members []string) (*Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var projection = query.
	NewProjectionMap("public", "approval_groups", "g").
	Project("id", "ID").
	Project("name", "Name").
	Project("members", "Members").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for group queries.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

func scanGroup(s repository.Scanner) (Group, error) {
	var (
		g   Group
		raw []byte
	)

	if err := s.Scan(&g.ID, &g.Name, &raw, &g.CreatedAt); err != nil {
		return g, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &g.Members); err != nil {
			return g, fmt.Errorf("decode group members: %w", err)
		}
	}

	return g, nil
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an approval group repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "directory"),
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
) (*pagination.PageResult[Group], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count approval groups: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	groups, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGroup)
	if err != nil {
		return nil, fmt.Errorf("query approval groups: %w", err)
	}

	result := pagination.NewPageResult(groups, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Group, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Group, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	members, err := json.Marshal(cmd.Members)
	if err != nil {
		return nil, fmt.Errorf("encode group members: %w", err)
	}

	q := `
		INSERT INTO approval_groups(id, name, members)
		VALUES ($1, $2, $3)
		RETURNING ` + groupColumns

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Group, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), cmd.Name, members}, scanGroup)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("approval group created", "id", g.ID, "name", g.Name, "members", len(g.Members))
	return &g, nil
}

func (r *repo) UpdateMembers(ctx context.Context, id uuid.UUID, members []string) (*Group, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	raw, err := json.Marshal(members)
	if err != nil {
		return nil, fmt.Errorf("encode group members: %w", err)
	}

	q := `
		UPDATE approval_groups
		SET members = $2
		WHERE id = $1
		RETURNING ` + groupColumns

	g, err := repository.QueryOne(ctx, r.db, q, []any{id, raw}, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("approval group members updated", "id", id, "members", len(g.Members))
	return &g, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM approval_groups WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("approval group deleted", "id", id)
	return nil
}
