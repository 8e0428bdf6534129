package rules

import (
	"net/url"
	"strconv"

	"github.com/chancerylabs/chancery/pkg/query"
	"github.com/chancerylabs/chancery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "validation_rules", "r").
	Project("id", "ID").
	Project("name", "Name").
	Project("document_type", "DocumentType").
	Project("field_name", "FieldName").
	Project("rule_type", "RuleType").
	Project("rule_pattern", "RulePattern").
	Project("description", "Description").
	Project("reference_field", "ReferenceField").
	Project("calculation_type", "CalculationType").
	Project("tolerance", "Tolerance").
	Project("auto_created", "AutoCreated").
	Project("is_active", "IsActive").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "FieldName",
}

// Filters contains optional filtering criteria for rule queries.
// Nil fields are ignored.
type Filters struct {
	DocumentType *string   `json:"document_type,omitempty"`
	FieldName    *string   `json:"field_name,omitempty"`
	RuleType     *RuleType `json:"rule_type,omitempty"`
	AutoCreated  *bool     `json:"auto_created,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("FieldName", f.FieldName).
		WhereEquals("AutoCreated", f.AutoCreated).
		WhereEquals("IsActive", f.IsActive)
	if f.RuleType != nil {
		b.WhereEquals("RuleType", string(*f.RuleType))
	}
	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("document_type"); v != "" {
		f.DocumentType = &v
	}
	if v := values.Get("field_name"); v != "" {
		f.FieldName = &v
	}
	if v := values.Get("rule_type"); v != "" {
		rt := RuleType(v)
		f.RuleType = &rt
	}
	if v := values.Get("auto_created"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.AutoCreated = &b
		}
	}
	if v := values.Get("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.IsActive = &b
		}
	}

	return f
}

func scanRule(s repository.Scanner) (Rule, error) {
	var r Rule
	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.DocumentType,
		&r.FieldName,
		&r.RuleType,
		&r.RulePattern,
		&r.Description,
		&r.ReferenceField,
		&r.CalculationType,
		&r.Tolerance,
		&r.AutoCreated,
		&r.IsActive,
		&r.CreatedAt,
	)
	return r, err
}
