package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/internal/rules"
)

// RuleSource supplies the active rule set for a document type, ordered by
// field name. Implemented by the rules repository.
type RuleSource interface {
	ListActive(ctx context.Context, documentType string) ([]rules.Rule, error)
}

// Engine evaluates extracted document data against the rule catalog.
type Engine struct {
	source RuleSource
	logger *slog.Logger
}

// New creates a validation engine backed by the given rule source.
func New(source RuleSource, logger *slog.Logger) *Engine {
	return &Engine{
		source: source,
		logger: logger.With("system", "validation"),
	}
}

// Validate applies every active rule for documentType to data and returns
// the aggregated report. Rules that cannot be evaluated because they are
// misauthored (bad regex, unknown type) fail individually without aborting
// the run. The returned error covers rule loading only.
func (e *Engine) Validate(ctx context.Context, data fields.Map, documentType string) (*Result, error) {
	ruleSet, err := e.source.ListActive(ctx, documentType)
	if err != nil {
		return nil, fmt.Errorf("load rules for %s: %w", documentType, err)
	}

	result := &Result{
		Status:           StatusPassed,
		DocumentType:     documentType,
		TotalRules:       len(ruleSet),
		Errors:           []string{},
		Warnings:         []string{},
		FieldValidations: make(map[string]FieldResult),
	}

	if len(ruleSet) == 0 {
		result.Status = StatusNoRules
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no validation rules found for document type: %s", documentType))
		return result, nil
	}

	for _, rule := range ruleSet {
		fr := e.apply(data, rule)
		result.FieldValidations[rule.FieldName] = fr

		if fr.Passed {
			result.PassedRules++
		} else {
			result.FailedRules++
			result.Errors = append(result.Errors, fr.Errors...)
		}
	}

	if result.FailedRules > 0 {
		result.Status = StatusFailed
	}

	e.logger.Debug("validation completed",
		"document_type", documentType,
		"status", result.Status,
		"passed", result.PassedRules,
		"failed", result.FailedRules,
	)
	return result, nil
}

func (e *Engine) apply(data fields.Map, rule rules.Rule) FieldResult {
	fr := FieldResult{
		RuleName:  rule.Name,
		FieldName: rule.FieldName,
		RuleType:  rule.RuleType,
		Errors:    []string{},
	}

	value := data.Resolve(rule.FieldName)
	fr.Value = value

	var err error
	switch rule.RuleType {
	case rules.TypeRequired:
		err = validateRequired(value, rule)
	case rules.TypeRegex:
		err = validateRegex(value, rule)
	case rules.TypeDataType:
		err = validateDataType(value, rule)
	case rules.TypeRange:
		err = validateRange(value, rule)
	case rules.TypeEnum:
		err = validateEnum(value, rule)
	case rules.TypeCrossReference, rules.TypeCalculation:
		err = validateCrossReference(data, value, rule)
	default:
		err = fmt.Errorf("unknown rule type: %s", rule.RuleType)
	}

	if err != nil {
		fr.Errors = append(fr.Errors, err.Error())
		return fr
	}

	fr.Passed = true
	return fr
}

func validateRequired(value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("required field '%s' is missing or empty", rule.FieldName)
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fmt.Errorf("required field '%s' is missing or empty", rule.FieldName)
	}
	return nil
}

func validateRegex(value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("field '%s' is missing but required for regex validation", rule.FieldName)
	}

	re, err := compilePrefix(rule.RulePattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern in rule '%s': %v", rule.Name, err)
	}

	str := fields.Stringify(value)
	if !re.MatchString(str) {
		return fmt.Errorf("field '%s' value '%s' does not match required pattern: %s",
			rule.FieldName, str, rule.RulePattern)
	}
	return nil
}

func validateRange(value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("field '%s' is missing but required for range validation", rule.FieldName)
	}

	min, max, err := parseRange(rule.RulePattern)
	if err != nil {
		return fmt.Errorf("invalid range format in rule '%s': use 'min,max' or 'min-max'", rule.Name)
	}

	n, err := fields.Numeric(value)
	if err != nil {
		return fmt.Errorf("invalid numeric value for range validation in rule '%s': %v", rule.Name, err)
	}

	if n < min || n > max {
		return fmt.Errorf("field '%s' value %v is outside valid range: %v to %v",
			rule.FieldName, n, min, max)
	}
	return nil
}

func validateEnum(value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("field '%s' is missing but required for enumeration validation", rule.FieldName)
	}

	allowed := strings.Split(rule.RulePattern, ",")
	str := strings.TrimSpace(fields.Stringify(value))

	for _, candidate := range allowed {
		if str == strings.TrimSpace(candidate) {
			return nil
		}
	}
	return fmt.Errorf("field '%s' value '%s' is not in allowed values: %s",
		rule.FieldName, str, rule.RulePattern)
}
