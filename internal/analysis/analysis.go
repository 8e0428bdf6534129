// Package analysis implements statistical pattern induction over processed
// documents. It mines historical extracted field values for a document type,
// infers per-field patterns (data type, format, numeric range, enumeration),
// and can materialize high-confidence suggestions as validation rules.
// Induction is purely statistical: identical inputs and thresholds always
// produce identical output.
package analysis

import (
	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/rules"
)

// Status summarizes an analysis run.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusInsufficientData Status = "insufficient_data"
	StatusNoHighConfidence Status = "no_high_confidence_rules"
)

// Analysis is the report produced by Analyze.
type Analysis struct {
	Status            Status                   `json:"status"`
	Message           string                   `json:"message,omitempty"`
	DocumentType      string                   `json:"document_type"`
	AnalyzedDocuments int                      `json:"analyzed_documents"`
	FieldAnalyses     map[string]FieldAnalysis `json:"field_analyses,omitempty"`
	Suggestions       []Suggestion             `json:"suggestions"`
}

// FieldAnalysis groups the per-analyzer findings for a single field.
// A nil finding means the analyzer saw no usable pattern.
type FieldAnalysis struct {
	DataType *DataTypeFinding `json:"data_type,omitempty"`
	Regex    *RegexFinding    `json:"regex,omitempty"`
	Range    *RangeFinding    `json:"range,omitempty"`
	Enum     *EnumFinding     `json:"enum,omitempty"`
}

// DataTypeFinding reports the majority value type for a field.
type DataTypeFinding struct {
	Type        string         `json:"type"`
	Confidence  float64        `json:"confidence"`
	SampleCount int            `json:"sample_count"`
	Counts      map[string]int `json:"type_distribution"`
}

// RegexFinding reports the best-matching canonical pattern for a field.
type RegexFinding struct {
	Pattern    string  `json:"pattern"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Matches    int     `json:"matches"`
	Total      int     `json:"total"`
}

// RangeFinding reports an inferred numeric range for a field.
type RangeFinding struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sample_count"`
	ObservedMin float64 `json:"observed_min"`
	ObservedMax float64 `json:"observed_max"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
}

// EnumFinding reports a small closed set of observed values for a field.
type EnumFinding struct {
	Values      []string       `json:"values"`
	Confidence  float64        `json:"confidence"`
	UniqueCount int            `json:"unique_count"`
	TotalValues int            `json:"total_values"`
	Counts      map[string]int `json:"value_distribution"`
}

// Suggestion is a candidate validation rule derived from a finding.
type Suggestion struct {
	Name         string         `json:"name"`
	DocumentType string         `json:"document_type"`
	FieldName    string         `json:"field_name"`
	RuleType     rules.RuleType `json:"rule_type"`
	RulePattern  string         `json:"rule_pattern"`
	Description  string         `json:"description"`
	Confidence   float64        `json:"confidence"`
}

// CreatedRule reports a rule materialized by AutoCreate.
type CreatedRule struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	FieldName  string         `json:"field_name"`
	RuleType   rules.RuleType `json:"rule_type"`
	Confidence float64        `json:"confidence"`
}

// AutoCreateResult reports the outcome of an AutoCreate run.
type AutoCreateResult struct {
	Status       Status        `json:"status"`
	Message      string        `json:"message,omitempty"`
	DocumentType string        `json:"document_type"`
	Analyzed     int           `json:"analyzed_rules"`
	Created      []CreatedRule `json:"created_rules"`
	TotalCreated int           `json:"total_created"`
}
