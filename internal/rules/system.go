package rules

import (
	"context"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/pagination"
)

// System defines the public contract for rule catalog operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Rule], error)

	Find(ctx context.Context, id uuid.UUID) (*Rule, error)

	// ListActive returns the active rules for a document type ordered by
	// field name. This is the set the validation engine evaluates.
	ListActive(ctx context.Context, documentType string) ([]Rule, error)

	Create(ctx context.Context, cmd CreateCommand) (*Rule, error)

	// GetOrCreate registers a rule unless one already exists for the same
	// (document_type, field_name, rule_type). It reports whether a new
	// rule was created. Safe under concurrent callers.
	GetOrCreate(ctx context.Context, cmd CreateCommand) (*Rule, bool, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActiveByDocumentTypes returns the active rules across a set of
	// document types, ordered like ListActive.
	ListActiveByDocumentTypes(ctx context.Context, documentTypes []string) ([]Rule, error)

	// CountByDocumentTypes reports the total and active rule counts across
	// a set of document types.
	CountByDocumentTypes(ctx context.Context, documentTypes []string) (total, active int, err error)

	// SetActiveByDocumentTypes toggles every rule across a set of document
	// types, returning the number of rules changed.
	SetActiveByDocumentTypes(ctx context.Context, documentTypes []string, active bool) (int, error)
}
