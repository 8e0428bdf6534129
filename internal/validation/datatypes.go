package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/internal/rules"
)

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripper  = regexp.MustCompile(`[\s\-\(\)\+\.]`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)

	// Accepted date layouts: YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY, M/D/YYYY.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`),
	}
)

func validateDataType(value any, rule rules.Rule) error {
	if value == nil {
		return fmt.Errorf("field '%s' is missing but required for data type validation", rule.FieldName)
	}

	expected := strings.ToLower(strings.TrimSpace(rule.RulePattern))
	ok, known := checkDataType(value, expected)
	if !known {
		return fmt.Errorf("unknown data type '%s' in rule '%s'", rule.RulePattern, rule.Name)
	}
	if !ok {
		return fmt.Errorf("field '%s' value '%v' is not of expected type: %s",
			rule.FieldName, fields.Stringify(value), expected)
	}
	return nil
}

func checkDataType(value any, expected string) (ok, known bool) {
	switch expected {
	case "string":
		_, isStr := value.(string)
		return isStr, true
	case "integer":
		return isInteger(value), true
	case "float", "number":
		return fields.IsNumeric(value), true
	case "currency":
		return isCurrency(value), true
	case "date":
		return isDate(value), true
	case "email":
		return isEmail(value), true
	case "phone":
		return isPhone(value), true
	case "boolean":
		return isBoolean(value), true
	}
	return false, false
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int64:
		return true
	case float64:
		return v == float64(int64(v))
	case json.Number:
		_, err := v.Int64()
		return err == nil
	case string:
		return integerPattern.MatchString(v)
	}
	return false
}

func isCurrency(value any) bool {
	return fields.IsNumeric(value)
}

func isDate(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func isEmail(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return emailPattern.MatchString(strings.TrimSpace(s))
}

func isPhone(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	cleaned := phoneStripper.ReplaceAllString(s, "")
	return digitsOnly.MatchString(cleaned) && len(cleaned) >= 7 && len(cleaned) <= 15
}

func isBoolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return true
	case string:
		switch strings.ToLower(v) {
		case "true", "false", "1", "0":
			return true
		}
	case float64:
		return v == 0 || v == 1
	}
	return false
}
