package fields_test

import (
	"testing"

	"github.com/chancerylabs/chancery/internal/fields"
)

func sampleData() fields.Map {
	return fields.Map{
		"invoice_number": map[string]any{"value": "INV-1001", "confidence": 0.95},
		"total":          map[string]any{"value": "$1,250.00", "confidence": 0.9},
		"vendor": map[string]any{
			"name": map[string]any{"value": "Acme Corp", "confidence": 0.8},
			"city": "Portland",
		},
		"line_count": float64(3),
		"raw_text":   "Invoice INV-1001 ...",
	}
}

func TestResolve(t *testing.T) {
	data := sampleData()

	tests := []struct {
		name string
		path string
		want any
	}{
		{"wrapped scalar", "invoice_number", "INV-1001"},
		{"nested wrapped", "vendor.name", "Acme Corp"},
		{"nested plain", "vendor.city", "Portland"},
		{"plain scalar", "line_count", float64(3)},
		{"missing field", "po_number", nil},
		{"missing nested", "vendor.country", nil},
		{"path through scalar", "line_count.value", nil},
		{"empty path", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := data.Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveEmptyMap(t *testing.T) {
	var data fields.Map
	if got := data.Resolve("anything"); got != nil {
		t.Errorf("Resolve on nil map = %v, want nil", got)
	}
}

func TestFlatten(t *testing.T) {
	flat := sampleData().Flatten()

	want := map[string]any{
		"invoice_number": "INV-1001",
		"total":          "$1,250.00",
		"vendor.name":    "Acme Corp",
		"vendor.city":    "Portland",
		"line_count":     float64(3),
		"raw_text":       "Invoice INV-1001 ...",
	}

	if len(flat) != len(want) {
		t.Fatalf("Flatten() produced %d keys, want %d: %v", len(flat), len(want), flat)
	}
	for key, expected := range want {
		if got, ok := flat[key]; !ok || got != expected {
			t.Errorf("Flatten()[%q] = %v, want %v", key, got, expected)
		}
	}
}

func TestFirstAmount(t *testing.T) {
	data := fields.Map{
		"total":    map[string]any{"value": "n/a", "confidence": 0.2},
		"amount":   map[string]any{"value": "$500.25", "confidence": 0.9},
		"subtotal": float64(450),
	}

	got, ok := data.FirstAmount("total", "amount", "subtotal")
	if !ok {
		t.Fatal("FirstAmount() found nothing")
	}
	if got != 500.25 {
		t.Errorf("FirstAmount() = %v, want 500.25", got)
	}

	if _, ok := data.FirstAmount("missing", "total"); ok {
		t.Error("FirstAmount() should fail when no key coerces")
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr bool
	}{
		{"float", 42.5, 42.5, false},
		{"int", 7, 7, false},
		{"plain string", "19.99", 19.99, false},
		{"currency string", "$1,250.00", 1250, false},
		{"euro string", "€99", 99, false},
		{"spaced string", " 300 ", 300, false},
		{"wrapped value", map[string]any{"value": "10", "confidence": 0.5}, 10, false},
		{"non-numeric string", "pending", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fields.Numeric(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Numeric(%v) expected error, got %v", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Numeric(%v) failed: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Numeric(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"integral float", float64(42), "42"},
		{"fractional float", 42.5, "42.5"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"wrapped", map[string]any{"value": "INV-1", "confidence": 0.9}, "INV-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fields.Stringify(tt.value); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		m, err := fields.Decode([]byte(`{"total": 100}`))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if m.Resolve("total") != float64(100) {
			t.Errorf("decoded total = %v, want 100", m.Resolve("total"))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		m, err := fields.Decode(nil)
		if err != nil {
			t.Fatalf("Decode(nil) failed: %v", err)
		}
		if m == nil {
			t.Error("Decode(nil) returned nil map")
		}
	})

	t.Run("null input", func(t *testing.T) {
		m, err := fields.Decode([]byte(`null`))
		if err != nil {
			t.Fatalf("Decode(null) failed: %v", err)
		}
		if m == nil {
			t.Error("Decode(null) returned nil map")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := fields.Decode([]byte(`{`)); err == nil {
			t.Error("Decode of malformed json should fail")
		}
	})
}
