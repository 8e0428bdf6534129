package executions

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflow_executions", "e").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("workflow_id", "WorkflowID").
	Project("status", "Status").
	Project("current_step", "CurrentStep").
	Project("execution_data", "Data").
	Project("error_log", "ErrorLog").
	Project("started_by", "StartedBy").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for execution queries.
// Nil fields are ignored; all use exact matching. Open restricts results
// to executions that have not yet completed.
type Filters struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	WorkflowID *uuid.UUID `json:"workflow_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	StartedBy  *string    `json:"started_by,omitempty"`
	Open       bool       `json:"open,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b = b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("WorkflowID", f.WorkflowID).
		WhereEquals("Status", f.Status).
		WhereEquals("StartedBy", f.StartedBy)

	if f.Open {
		b = b.WhereNullable("CompletedAt", nil)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if w := values.Get("workflow_id"); w != "" {
		if id, err := uuid.Parse(w); err == nil {
			f.WorkflowID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if sb := values.Get("started_by"); sb != "" {
		f.StartedBy = &sb
	}

	if values.Get("open") == "true" {
		f.Open = true
	}

	return f
}

func scanExecution(s repository.Scanner) (Execution, error) {
	var (
		e       Execution
		rawData []byte
		rawLog  []byte
	)

	err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.WorkflowID,
		&e.Status,
		&e.CurrentStep,
		&rawData,
		&rawLog,
		&e.StartedBy,
		&e.StartedAt,
		&e.CompletedAt,
	)
	if err != nil {
		return e, err
	}

	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &e.Data); err != nil {
			return e, fmt.Errorf("decode execution data: %w", err)
		}
	}

	if len(rawLog) > 0 {
		if err := json.Unmarshal(rawLog, &e.ErrorLog); err != nil {
			return e, fmt.Errorf("decode execution error log: %w", err)
		}
	}

	return e, nil
}
