package approvals

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "document_approvals", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("workflow_step_id", "WorkflowStepID").
	Project("execution_id", "ExecutionID").
	Project("approver", "Approver").
	Project("approval_level", "ApprovalLevel").
	Project("status", "Status").
	Project("comments", "Comments").
	Project("due_date", "DueDate").
	Project("delegated_to", "DelegatedTo").
	Project("created_at", "CreatedAt").
	Project("reviewed_at", "ReviewedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for approval queries.
// Nil fields are ignored; all use exact matching.
type Filters struct {
	DocumentID  *uuid.UUID `json:"document_id,omitempty"`
	ExecutionID *uuid.UUID `json:"execution_id,omitempty"`
	Approver    *string    `json:"approver,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("ExecutionID", f.ExecutionID).
		WhereEquals("Approver", f.Approver).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if e := values.Get("execution_id"); e != "" {
		if id, err := uuid.Parse(e); err == nil {
			f.ExecutionID = &id
		}
	}

	if a := values.Get("approver"); a != "" {
		f.Approver = &a
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanApproval(s repository.Scanner) (Approval, error) {
	var a Approval
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.WorkflowStepID,
		&a.ExecutionID,
		&a.Approver,
		&a.ApprovalLevel,
		&a.Status,
		&a.Comments,
		&a.DueDate,
		&a.DelegatedTo,
		&a.CreatedAt,
		&a.ReviewedAt,
	)
	return a, err
}
