package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/chancerylabs/chancery/internal/fields"
)

const (
	dataTypeThreshold = 0.7
	regexThreshold    = 0.8
	rangeThreshold    = 0.8
	minRangeSamples   = 3

	enumMaxUnique      = 10
	enumMaxUniqueRatio = 0.3
	enumMinOccurrences = 2
)

var (
	integerPattern  = regexp.MustCompile(`^-?\d+$`)
	floatPattern    = regexp.MustCompile(`^\d*\.\d+$`)
	currencyPattern = regexp.MustCompile(`^[$€£¥₹]?\s*\d{1,3}(?:,\d{3})*(?:\.\d{2})?$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripper   = regexp.MustCompile(`[\s\-()+.]`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
	datePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`),
	}
)

// classifyValue names the observed type of a single extracted value.
func classifyValue(v any) string {
	switch t := v.(type) {
	case bool:
		return "boolean"
	case int, int32, int64:
		return "integer"
	case float32:
		return classifyFloat(float64(t))
	case float64:
		return classifyFloat(t)
	case string:
		return classifyString(t)
	default:
		return "string"
	}
}

// classifyString checks the string formats from most to least specific:
// integer, float, currency, date, email, phone, then plain string.
func classifyString(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case integerPattern.MatchString(s):
		return "integer"
	case floatPattern.MatchString(s):
		return "float"
	case currencyPattern.MatchString(s):
		return "currency"
	case isDateString(s):
		return "date"
	case emailPattern.MatchString(s):
		return "email"
	case isPhoneString(s):
		return "phone"
	default:
		return "string"
	}
}

func isDateString(s string) bool {
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func isPhoneString(s string) bool {
	cleaned := phoneStripper.ReplaceAllString(s, "")
	return digitsOnly.MatchString(cleaned) && len(cleaned) >= 7 && len(cleaned) <= 15
}

func classifyFloat(f float64) string {
	if f == float64(int64(f)) {
		return "integer"
	}
	return "float"
}

// analyzeDataType finds the majority type across values. A finding is
// produced only when one type accounts for at least 70% of the samples.
func analyzeDataType(values []any) *DataTypeFinding {
	if len(values) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, v := range values {
		counts[classifyValue(v)]++
	}

	best, bestCount := "", 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}

	confidence := float64(bestCount) / float64(len(values))
	if confidence < dataTypeThreshold {
		return nil
	}

	return &DataTypeFinding{
		Type:        best,
		Confidence:  confidence,
		SampleCount: len(values),
		Counts:      counts,
	}
}

// analyzeRegex matches string values against the canonical pattern catalog
// and reports the best pattern when it covers at least 80% of the samples.
func analyzeRegex(values []any) *RegexFinding {
	strs := stringValues(values)
	if len(strs) == 0 {
		return nil
	}

	var best *RegexFinding
	for _, cp := range canonicalPatterns {
		matches := 0
		for _, s := range strs {
			if cp.re.MatchString(s) {
				matches++
			}
		}
		confidence := float64(matches) / float64(len(strs))
		if confidence < regexThreshold {
			continue
		}
		if best == nil || confidence > best.Confidence {
			best = &RegexFinding{
				Pattern:    cp.pattern,
				Name:       cp.name,
				Confidence: confidence,
				Matches:    matches,
				Total:      len(strs),
			}
		}
	}
	return best
}

// analyzeRange infers a numeric band of mean plus or minus two standard
// deviations, clipped to the observed extremes. A finding is produced only
// when at least 80% of samples fall inside the suggested band.
func analyzeRange(values []any) *RangeFinding {
	nums := numericValues(values)
	if len(nums) < minRangeSamples {
		return nil
	}

	mean := meanOf(nums)
	std := stdDevOf(nums, mean)

	observedMin, observedMax := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < observedMin {
			observedMin = n
		}
		if n > observedMax {
			observedMax = n
		}
	}

	low := mean - 2*std
	if low < observedMin {
		low = observedMin
	}
	high := mean + 2*std
	if high > observedMax {
		high = observedMax
	}

	within := 0
	for _, n := range nums {
		if n >= low && n <= high {
			within++
		}
	}
	confidence := float64(within) / float64(len(nums))
	if confidence < rangeThreshold {
		return nil
	}

	return &RangeFinding{
		Min:         low,
		Max:         high,
		Confidence:  confidence,
		SampleCount: len(nums),
		ObservedMin: observedMin,
		ObservedMax: observedMax,
		Mean:        mean,
		StdDev:      std,
	}
}

// analyzeEnum detects a small closed vocabulary: at most 10 distinct values,
// distinct values under 30% of total, each seen at least twice. Confidence is
// one minus the unique-to-total ratio, so tighter vocabularies score higher.
func analyzeEnum(values []any) *EnumFinding {
	strs := stringValues(values)
	if len(strs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, s := range strs {
		counts[s]++
	}

	unique := len(counts)
	ratio := float64(unique) / float64(len(strs))
	if unique > enumMaxUnique || ratio >= enumMaxUniqueRatio {
		return nil
	}
	for _, count := range counts {
		if count < enumMinOccurrences {
			return nil
		}
	}

	members := make([]string, 0, unique)
	for s := range counts {
		members = append(members, s)
	}
	sort.Strings(members)

	return &EnumFinding{
		Values:      members,
		Confidence:  1 - ratio,
		UniqueCount: unique,
		TotalValues: len(strs),
		Counts:      counts,
	}
}

func stringValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func numericValues(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if n, err := fields.Numeric(v); err == nil {
			out = append(out, n)
		}
	}
	return out
}
