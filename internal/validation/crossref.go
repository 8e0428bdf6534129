package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/internal/rules"
)

// defaultTolerance is the permitted absolute difference for cross-reference
// comparisons when the rule does not carry its own.
const defaultTolerance = 0.01

// amountKeys are probed in order when extracting a numeric value from a
// line-item object.
var amountKeys = []string{"amount", "total", "price", "value", "cost"}

func validateCrossReference(data fields.Map, value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("field '%s' is missing but required for cross-reference validation", rule.FieldName)
	}
	if rule.ReferenceField == nil || *rule.ReferenceField == "" {
		return fmt.Errorf("cross-reference validation requires a reference_field in rule '%s'", rule.Name)
	}

	reference := data.Resolve(*rule.ReferenceField)
	if reference == nil {
		return fmt.Errorf("reference field '%s' is missing for cross-reference validation", *rule.ReferenceField)
	}

	calcType := "sum"
	if rule.CalculationType != nil && *rule.CalculationType != "" {
		calcType = *rule.CalculationType
	}

	calculated, err := aggregate(reference, calcType, *rule.ReferenceField)
	if err != nil {
		return fmt.Errorf("error in cross-reference validation for rule '%s': %v", rule.Name, err)
	}

	main, err := fields.Numeric(value)
	if err != nil {
		return fmt.Errorf("error in cross-reference validation for rule '%s': %v", rule.Name, err)
	}

	tolerance := defaultTolerance
	if rule.Tolerance != nil {
		tolerance = *rule.Tolerance
	}

	if diff := math.Abs(main - calculated); diff > tolerance {
		return fmt.Errorf(
			"field '%s' value %v does not match calculated %s %v from '%s' (difference: %v, tolerance: %v)",
			rule.FieldName, main, calcType, calculated, *rule.ReferenceField, diff, tolerance)
	}
	return nil
}

// aggregate computes the reference aggregate from a (usually list-valued)
// reference field. Non-list references are coerced to a single value.
func aggregate(reference any, calcType, referenceField string) (float64, error) {
	items, ok := reference.([]any)
	if !ok {
		return fields.Numeric(reference)
	}

	values := make([]float64, 0, len(items))
	for _, item := range items {
		if n, ok := itemNumeric(item); ok {
			values = append(values, n)
		}
	}

	if len(values) == 0 {
		return 0, fmt.Errorf("no numeric values found in reference field '%s'", referenceField)
	}

	switch calcType {
	case "sum":
		return sum(values), nil
	case "average":
		return sum(values) / float64(len(values)), nil
	case "count":
		return float64(len(values)), nil
	case "min":
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	case "max":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	default:
		return 0, fmt.Errorf("unknown calculation type: %s", calcType)
	}
}

// itemNumeric extracts the numeric value from a single line item, probing
// the canonical amount keys first and falling back to any coercible field.
func itemNumeric(item any) (float64, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		n, err := fields.Numeric(item)
		return n, err == nil
	}

	for _, key := range amountKeys {
		if v, present := obj[key]; present {
			n, err := fields.Numeric(v)
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}

	for _, v := range obj {
		if n, err := fields.Numeric(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// compilePrefix compiles a rule pattern with prefix-match semantics: the
// pattern must match at the start of the value but not necessarily consume
// all of it, unless it anchors itself.
func compilePrefix(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}

// parseRange parses a "min,max" or "min-max" range specification.
// An empty bound means unbounded on that side.
func parseRange(spec string) (min, max float64, err error) {
	var lo, hi string
	switch {
	case strings.Contains(spec, ","):
		parts := strings.SplitN(spec, ",", 2)
		lo, hi = parts[0], parts[1]
	case strings.Contains(spec, "-"):
		parts := strings.SplitN(spec, "-", 2)
		lo, hi = parts[0], parts[1]
	default:
		return 0, 0, fmt.Errorf("missing range separator")
	}

	min = math.Inf(-1)
	if s := strings.TrimSpace(lo); s != "" {
		if min, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, 0, fmt.Errorf("invalid lower bound: %w", err)
		}
	}

	max = math.Inf(1)
	if s := strings.TrimSpace(hi); s != "" {
		if max, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, 0, fmt.Errorf("invalid upper bound: %w", err)
		}
	}

	return min, max, nil
}
