// Package fields models the extracted-data payload attached to a document.
// Extraction collaborators produce a mapping of field names to values where
// each value is either a plain scalar or a {value, confidence} pair. This
// package centralizes path resolution, confidence unwrapping, flattening,
// and numeric coercion so the validation engine, the workflow engine, and
// the pattern analyzer all see identical field semantics.
package fields

import (
	"encoding/json"
	"strings"
)

// Map is a document's extracted data as decoded from JSON.
type Map map[string]any

// Confidence is the wrapped form an extraction collaborator may emit
// for a single field.
type Confidence struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Unwrap returns the inner value when v is a {value, confidence} pair,
// otherwise v unchanged.
func Unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	if c, ok := v.(Confidence); ok {
		return c.Value
	}
	return v
}

// Resolve returns the value at a dot-separated path, unwrapping confidence
// pairs at every level. A missing path returns nil.
func (m Map) Resolve(path string) any {
	if len(m) == 0 || path == "" {
		return nil
	}

	var current any = map[string]any(m)
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		next, ok := node[key]
		if !ok {
			return nil
		}
		current = Unwrap(next)
	}
	return current
}

// Flatten converts nested extracted data into a single-level map with
// dot-joined keys, unwrapping confidence pairs. Lists are kept as values
// under their own key.
func (m Map) Flatten() map[string]any {
	flat := make(map[string]any)
	flatten("", map[string]any(m), flat)
	return flat
}

func flatten(prefix string, node map[string]any, out map[string]any) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		if child, ok := value.(map[string]any); ok {
			if inner, ok := child["value"]; ok {
				out[full] = inner
				continue
			}
			flatten(full, child, out)
			continue
		}

		out[full] = value
	}
}

// FirstAmount resolves the first key that yields a numeric value,
// probing in the given order. Returns false when none coerce.
func (m Map) FirstAmount(keys ...string) (float64, bool) {
	for _, key := range keys {
		v := m.Resolve(key)
		if v == nil {
			continue
		}
		if n, err := Numeric(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Decode unmarshals raw JSON into a Map. Nil or empty input yields an
// empty map rather than an error.
func Decode(raw []byte) (Map, error) {
	if len(raw) == 0 {
		return Map{}, nil
	}
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}
