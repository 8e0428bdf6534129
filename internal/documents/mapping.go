package documents

import (
	"net/url"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("document_type", "DocumentType").
	Project("extracted_data", "ExtractedData").
	Project("workflow_status", "WorkflowStatus").
	Project("current_approver", "CurrentApprover").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, DocumentType, WorkflowStatus, ContentType,
// and CurrentApprover use exact matching. Filename uses case-insensitive
// contains matching.
type Filters struct {
	Status          *string `json:"status,omitempty"`
	DocumentType    *string `json:"document_type,omitempty"`
	WorkflowStatus  *string `json:"workflow_status,omitempty"`
	ContentType     *string `json:"content_type,omitempty"`
	CurrentApprover *string `json:"current_approver,omitempty"`
	Filename        *string `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("WorkflowStatus", f.WorkflowStatus).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("CurrentApprover", f.CurrentApprover).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if ws := values.Get("workflow_status"); ws != "" {
		f.WorkflowStatus = &ws
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if ca := values.Get("current_approver"); ca != "" {
		f.CurrentApprover = &ca
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d   Document
		raw []byte
	)

	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.DocumentType,
		&raw,
		&d.WorkflowStatus,
		&d.CurrentApprover,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}

	if len(raw) > 0 {
		data, err := fields.Decode(raw)
		if err != nil {
			return d, err
		}
		d.ExtractedData = data
	}

	return d, nil
}
