package rules_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/chancerylabs/chancery/internal/rules"
)

func ptr[T any](v T) *T { return &v }

func TestRuleTypeValid(t *testing.T) {
	valid := []rules.RuleType{
		rules.TypeRegex, rules.TypeDataType, rules.TypeRequired,
		rules.TypeRange, rules.TypeEnum, rules.TypeCrossReference, rules.TypeCalculation,
	}
	for _, rt := range valid {
		if !rt.Valid() {
			t.Errorf("%s should be valid", rt)
		}
	}

	if rules.RuleType("checksum").Valid() {
		t.Error("checksum should not be a valid rule type")
	}
}

func TestCreateCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     rules.CreateCommand
		wantErr error
	}{
		{
			"valid regex rule",
			rules.CreateCommand{DocumentType: "invoice", FieldName: "invoice_number", RuleType: rules.TypeRegex, RulePattern: `INV-\d+`},
			nil,
		},
		{
			"missing document type",
			rules.CreateCommand{FieldName: "total", RuleType: rules.TypeRequired},
			rules.ErrMissingDocumentType,
		},
		{
			"missing field name",
			rules.CreateCommand{DocumentType: "invoice", RuleType: rules.TypeRequired},
			rules.ErrMissingFieldName,
		},
		{
			"unknown rule type",
			rules.CreateCommand{DocumentType: "invoice", FieldName: "total", RuleType: "checksum"},
			rules.ErrUnknownRuleType,
		},
		{
			"cross-reference without reference field",
			rules.CreateCommand{DocumentType: "invoice", FieldName: "total", RuleType: rules.TypeCrossReference},
			rules.ErrMissingReferenceField,
		},
		{
			"cross-reference with reference field",
			rules.CreateCommand{DocumentType: "invoice", FieldName: "total", RuleType: rules.TypeCrossReference, ReferenceField: ptr("line_items")},
			nil,
		},
		{
			"calculation without reference field",
			rules.CreateCommand{DocumentType: "invoice", FieldName: "total", RuleType: rules.TypeCalculation},
			rules.ErrMissingReferenceField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"document_type": {"invoice"},
			"field_name":    {"total"},
			"rule_type":     {"range"},
			"auto_created":  {"true"},
			"is_active":     {"false"},
		}

		f := rules.FiltersFromQuery(values)

		if f.DocumentType == nil || *f.DocumentType != "invoice" {
			t.Errorf("DocumentType = %v, want invoice", f.DocumentType)
		}
		if f.FieldName == nil || *f.FieldName != "total" {
			t.Errorf("FieldName = %v, want total", f.FieldName)
		}
		if f.RuleType == nil || *f.RuleType != rules.TypeRange {
			t.Errorf("RuleType = %v, want range", f.RuleType)
		}
		if f.AutoCreated == nil || !*f.AutoCreated {
			t.Errorf("AutoCreated = %v, want true", f.AutoCreated)
		}
		if f.IsActive == nil || *f.IsActive {
			t.Errorf("IsActive = %v, want false", f.IsActive)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		f := rules.FiltersFromQuery(url.Values{})
		if f.DocumentType != nil || f.FieldName != nil || f.RuleType != nil || f.AutoCreated != nil || f.IsActive != nil {
			t.Errorf("empty query should produce empty filters, got %+v", f)
		}
	})

	t.Run("invalid bool ignored", func(t *testing.T) {
		f := rules.FiltersFromQuery(url.Values{"is_active": {"maybe"}})
		if f.IsActive != nil {
			t.Errorf("IsActive = %v, want nil for unparseable value", f.IsActive)
		}
	})
}
