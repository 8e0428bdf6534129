// Package validation implements the rule evaluation engine. It applies the
// active rule set for a document type to extracted field data and produces
// a pure report; it never mutates the rule catalog or the document.
package validation

import "github.com/chancerylabs/chancery/internal/rules"

// Status summarizes an entire validation run.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusNoRules Status = "no_rules"
)

// Result is the report produced by a validation run.
type Result struct {
	Status           Status                 `json:"status"`
	DocumentType     string                 `json:"document_type"`
	TotalRules       int                    `json:"total_rules"`
	PassedRules      int                    `json:"passed_rules"`
	FailedRules      int                    `json:"failed_rules"`
	Errors           []string               `json:"errors"`
	Warnings         []string               `json:"warnings"`
	FieldValidations map[string]FieldResult `json:"field_validations"`
}

// FieldResult carries the outcome of a single rule evaluation.
type FieldResult struct {
	RuleName  string         `json:"rule_name"`
	FieldName string         `json:"field_name"`
	RuleType  rules.RuleType `json:"rule_type"`
	Passed    bool           `json:"passed"`
	Errors    []string       `json:"errors"`
	Value     any            `json:"value"`
}
