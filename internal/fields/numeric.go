package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// currencyStripper removes currency symbols, thousands separators, and
// whitespace before numeric parsing. Shared by every rule type so that
// data_type and cross_reference coercion cannot drift apart.
var currencyStripper = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "", " ", "", "\t", "",
)

// Numeric coerces a field value to float64. It accepts native JSON
// numbers, json.Number, integers, booleans are rejected, and strings
// after stripping currency formatting. Confidence pairs are unwrapped.
func Numeric(v any) (float64, error) {
	switch value := Unwrap(v).(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case json.Number:
		return value.Float64()
	case string:
		cleaned := currencyStripper.Replace(strings.TrimSpace(value))
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to numeric value", value)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot extract numeric value from %T", v)
	}
}

// IsNumeric reports whether v coerces cleanly via Numeric.
func IsNumeric(v any) bool {
	_, err := Numeric(v)
	return err == nil
}

// Stringify renders a field value for display and string-oriented rules.
// Floats with no fractional part render without a trailing ".0" so that
// extracted "42" and 42.0 compare equally.
func Stringify(v any) string {
	switch value := Unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
