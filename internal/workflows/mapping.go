package workflows

import (
	"net/url"
	"strconv"

	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflows", "w").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("is_active", "IsActive").
	Project("requires_approval", "RequiresApproval").
	Project("approval_threshold", "ApprovalThreshold").
	Project("auto_approve_below_threshold", "AutoApproveBelowThreshold").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for workflow queries.
// Nil fields are ignored. Name uses case-insensitive contains matching.
type Filters struct {
	Name             *string `json:"name,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	RequiresApproval *bool   `json:"requires_approval,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("IsActive", f.IsActive).
		WhereEquals("RequiresApproval", f.RequiresApproval)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if ia := values.Get("is_active"); ia != "" {
		if v, err := strconv.ParseBool(ia); err == nil {
			f.IsActive = &v
		}
	}

	if ra := values.Get("requires_approval"); ra != "" {
		if v, err := strconv.ParseBool(ra); err == nil {
			f.RequiresApproval = &v
		}
	}

	return f
}

func scanWorkflow(s repository.Scanner) (Workflow, error) {
	var w Workflow
	err := s.Scan(
		&w.ID,
		&w.Name,
		&w.Description,
		&w.IsActive,
		&w.RequiresApproval,
		&w.ApprovalThreshold,
		&w.AutoApproveBelowThreshold,
		&w.CreatedAt,
	)
	return w, err
}

func scanStep(s repository.Scanner) (Step, error) {
	var st Step
	err := s.Scan(
		&st.ID,
		&st.WorkflowID,
		&st.Name,
		&st.Description,
		&st.StepOrder,
		&st.StepType,
		&st.ConditionField,
		&st.ConditionValue,
		&st.ConditionOperator,
		&st.Approver,
		&st.ApprovalGroup,
		&st.RequiresAllApprovers,
		&st.IntegrationSystem,
		&st.IntegrationConfig,
		&st.CreatedAt,
	)
	return st, err
}
