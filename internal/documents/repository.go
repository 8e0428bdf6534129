package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/pkg/formatting"
	"github.com/chancerylabs/chancery/pkg/pagination"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
	"github.com/chancerylabs/chancery/pkg/storage"
)

const documentColumns = `id, filename, content_type, size_bytes, page_count, storage_key,
		status, document_type, extracted_data, workflow_status, current_approver,
		uploaded_at, updated_at`

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, validator Validator) *Handler {
	return NewHandler(r, validator, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "DocumentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, size_bytes, page_count, storage_key, document_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + documentColumns

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		cmd.DocumentType,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created",
		"id", d.ID,
		"filename", d.Filename,
		"size", formatting.FormatBytes(d.SizeBytes, 1),
	)
	return &d, nil
}

func (r *repo) UpdateExtraction(ctx context.Context, id uuid.UUID, cmd ExtractionCommand) (*Document, error) {
	status := StatusProcessed
	if cmd.Failed {
		status = StatusError
	}

	data := cmd.ExtractedData
	if data == nil {
		data = fields.Map{}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode extracted data: %w", err)
	}

	q := `
		UPDATE documents
		SET extracted_data = $2,
			document_type = COALESCE(NULLIF($3, ''), document_type),
			status = $4,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + documentColumns

	d, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{id, raw, cmd.DocumentType, status},
		scanDocument,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document extraction updated",
		"id", d.ID,
		"document_type", d.DocumentType,
		"status", d.Status,
	)
	return &d, nil
}

func (r *repo) SetWorkflowStatus(ctx context.Context, id uuid.UUID, status string, currentApprover *string) (*Document, error) {
	q := `
		UPDATE documents
		SET workflow_status = $2,
			current_approver = $3,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + documentColumns

	d, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{id, status, currentApprover},
		scanDocument,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &d, nil
}

func (r *repo) ListExtracted(ctx context.Context, documentType string) ([]fields.Map, error) {
	q := `
		SELECT extracted_data
		FROM documents
		WHERE document_type = $1
			AND status = $2
			AND extracted_data IS NOT NULL
		ORDER BY uploaded_at`

	maps, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{documentType, StatusProcessed},
		func(s repository.Scanner) (fields.Map, error) {
			var raw []byte
			if err := s.Scan(&raw); err != nil {
				return nil, err
			}
			return fields.Decode(raw)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query extracted data for %s: %w", documentType, err)
	}

	return maps, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
