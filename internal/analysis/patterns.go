package analysis

import "regexp"

// canonicalPattern pairs a named format with its compiled matcher. The
// pattern string is what gets stored on a suggested regex rule.
type canonicalPattern struct {
	name    string
	pattern string
	re      *regexp.Regexp
}

func mustPattern(name, pattern string) canonicalPattern {
	return canonicalPattern{
		name:    name,
		pattern: pattern,
		re:      regexp.MustCompile(pattern),
	}
}

// canonicalPatterns is the catalog of recognizable field formats, checked in
// order. More specific patterns come before broader ones so a tie in match
// ratio resolves toward the specific format.
var canonicalPatterns = []canonicalPattern{
	mustPattern("invoice_number_inv", `^INV-\d{4,}$`),
	mustPattern("invoice_number", `^[A-Z]{2,3}-\d{4,}$`),
	mustPattern("reference_code", `^[A-Z]{2}\d{6}$`),
	mustPattern("date_iso", `^\d{4}-\d{2}-\d{2}$`),
	mustPattern("date_us", `^\d{2}/\d{2}/\d{4}$`),
	mustPattern("email", `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`),
	mustPattern("phone", `^[+]?[\d\s\-\(\)]+$`),
}
