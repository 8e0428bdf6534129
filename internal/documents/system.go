package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64, validator Validator) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateExtraction stores the extraction pipeline's output and advances
	// the document's processing status.
	UpdateExtraction(ctx context.Context, id uuid.UUID, cmd ExtractionCommand) (*Document, error)

	// SetWorkflowStatus reflects workflow execution state onto the document.
	SetWorkflowStatus(ctx context.Context, id uuid.UUID, status string, currentApprover *string) (*Document, error)

	// ListExtracted returns the extracted data of every processed document
	// of the given type, for pattern analysis.
	ListExtracted(ctx context.Context, documentType string) ([]fields.Map, error)
}
