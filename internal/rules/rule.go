// Package rules implements the validation-rule catalog for Chancery.
// Rules are created by administrators or synthesized by the pattern
// analysis service, and consumed by the validation engine. A rule is
// never mutated after creation except for activation toggling.
package rules

import (
	"time"

	"github.com/google/uuid"
)

// RuleType identifies the validation strategy a rule encodes.
type RuleType string

const (
	TypeRegex          RuleType = "regex"
	TypeDataType       RuleType = "data_type"
	TypeRequired       RuleType = "required"
	TypeRange          RuleType = "range"
	TypeEnum           RuleType = "enum"
	TypeCrossReference RuleType = "cross_reference"
	TypeCalculation    RuleType = "calculation"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	switch t {
	case TypeRegex, TypeDataType, TypeRequired, TypeRange,
		TypeEnum, TypeCrossReference, TypeCalculation:
		return true
	}
	return false
}

// Rule represents a stored validation rule. RulePattern carries the
// type-dependent encoding: a regex source, a type name, "min,max", or a
// comma-separated allow-list. ReferenceField, CalculationType, and
// Tolerance apply only to cross_reference and calculation rules.
type Rule struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DocumentType    string    `json:"document_type"`
	FieldName       string    `json:"field_name"`
	RuleType        RuleType  `json:"rule_type"`
	RulePattern     string    `json:"rule_pattern"`
	Description     string    `json:"description"`
	ReferenceField  *string   `json:"reference_field"`
	CalculationType *string   `json:"calculation_type"`
	Tolerance       *float64  `json:"tolerance"`
	AutoCreated     bool      `json:"auto_created"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to register a new rule.
type CreateCommand struct {
	Name            string   `json:"name"`
	DocumentType    string   `json:"document_type"`
	FieldName       string   `json:"field_name"`
	RuleType        RuleType `json:"rule_type"`
	RulePattern     string   `json:"rule_pattern"`
	Description     string   `json:"description"`
	ReferenceField  *string  `json:"reference_field"`
	CalculationType *string  `json:"calculation_type"`
	Tolerance       *float64 `json:"tolerance"`
	AutoCreated     bool     `json:"auto_created"`
}

// Validate checks structural requirements before persistence.
func (c CreateCommand) Validate() error {
	if c.DocumentType == "" {
		return ErrMissingDocumentType
	}
	if c.FieldName == "" {
		return ErrMissingFieldName
	}
	if !c.RuleType.Valid() {
		return ErrUnknownRuleType
	}
	if (c.RuleType == TypeCrossReference || c.RuleType == TypeCalculation) &&
		(c.ReferenceField == nil || *c.ReferenceField == "") {
		return ErrMissingReferenceField
	}
	return nil
}
