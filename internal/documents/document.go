// Package documents implements the document domain for Chancery.
// It provides types, data access, and business logic for document upload,
// extraction lifecycle, workflow status reflection, and blob storage
// integration.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/fields"
)

// Processing status values for a document.
const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusError      = "error"
)

// Workflow status values reflected onto a document by the execution engine.
const (
	WorkflowNone     = "none"
	WorkflowPending  = "pending"
	WorkflowInReview = "in_review"
	WorkflowApproved = "approved"
	WorkflowRejected = "rejected"
)

// Document represents an ingested document with its metadata, extracted
// field data, and blob storage reference.
type Document struct {
	ID              uuid.UUID  `json:"id"`
	Filename        string     `json:"filename"`
	ContentType     string     `json:"content_type"`
	SizeBytes       int64      `json:"size_bytes"`
	PageCount       *int       `json:"page_count"`
	StorageKey      string     `json:"storage_key"`
	Status          string     `json:"status"`
	DocumentType    string     `json:"document_type"`
	ExtractedData   fields.Map `json:"extracted_data"`
	WorkflowStatus  string     `json:"workflow_status"`
	CurrentApprover *string    `json:"current_approver"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may be
// extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data         []byte
	Filename     string
	ContentType  string
	DocumentType string
	PageCount    *int
}

// ExtractionCommand carries the output of an extraction pipeline run.
// Applying it marks the document processed unless Failed is set, in which
// case the document is marked errored and the data is stored as-is.
type ExtractionCommand struct {
	DocumentType  string     `json:"document_type"`
	ExtractedData fields.Map `json:"extracted_data"`
	Failed        bool       `json:"failed"`
}
