// Package business groups validation rules, workflows, and integration
// templates under named business types so a deployment can be configured
// for an industry in one call instead of rule by rule.
package business

// Type describes a supported business type and the document types and
// capabilities it covers.
type Type struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	DocumentTypes []string `json:"document_types"`
	KeyFeatures   []string `json:"key_features"`
}

// Overview is a Type augmented with configuration state for listings.
type Overview struct {
	Type
	TotalRules           int  `json:"total_rules"`
	ActiveRules          int  `json:"active_rules"`
	IntegrationTemplates int  `json:"integration_templates"`
	IsConfigured         bool `json:"is_configured"`
}

// catalog is ordered so listings are deterministic.
var catalog = []Type{
	{
		Key:         "restaurant",
		Name:        "Restaurant",
		Description: "Food service and hospitality business",
		DocumentTypes: []string{
			"restaurant_invoice", "restaurant_receipt", "restaurant_purchase_order",
			"food_safety_cert", "supplier_audit", "inventory_receipt",
		},
		KeyFeatures: []string{
			"food_safety_compliance", "perishable_item_tracking", "pos_integration",
			"inventory_management", "supplier_management",
		},
	},
	{
		Key:         "retail",
		Name:        "Retail",
		Description: "Retail sales and e-commerce business",
		DocumentTypes: []string{
			"retail_invoice", "retail_receipt", "shipping_label", "daily_sales_report",
		},
		KeyFeatures: []string{
			"inventory_sync", "pos_integration", "ecommerce_integration",
			"customer_management", "product_catalog",
		},
	},
	{
		Key:         "manufacturing",
		Name:        "Manufacturing",
		Description: "Manufacturing and production business",
		DocumentTypes: []string{
			"manufacturing_invoice", "manufacturing_purchase_order", "quality_certificate",
			"production_order", "quality_report", "material_consumption",
		},
		KeyFeatures: []string{
			"quality_control", "batch_tracking", "erp_integration",
			"production_planning", "compliance_reporting",
		},
	},
	{
		Key:         "healthcare",
		Name:        "Healthcare",
		Description: "Healthcare and medical services",
		DocumentTypes: []string{
			"healthcare_invoice", "medical_record", "prescription", "insurance_claim",
			"eob", "lab_order", "lab_result", "pathology_report",
		},
		KeyFeatures: []string{
			"hipaa_compliance", "emr_integration", "insurance_processing",
			"patient_management", "regulatory_compliance",
		},
	},
	{
		Key:         "construction",
		Name:        "Construction",
		Description: "Construction and building services",
		DocumentTypes: []string{
			"construction_invoice", "construction_purchase_order", "project_report",
			"safety_report", "incident_report", "inspection_checklist",
		},
		KeyFeatures: []string{
			"project_management", "safety_compliance", "permit_tracking",
			"equipment_management", "regulatory_compliance",
		},
	},
}

// Types returns the full business type catalog in listing order.
func Types() []Type {
	out := make([]Type, len(catalog))
	copy(out, catalog)
	return out
}

// TypeFor looks up a business type by key.
func TypeFor(key string) (*Type, error) {
	for _, t := range catalog {
		if t.Key == key {
			bt := t
			return &bt, nil
		}
	}
	return nil, ErrUnknownType
}

// TypeForDocument returns the business type whose document types include
// the given document type, or ErrUnknownType when none does.
func TypeForDocument(documentType string) (*Type, error) {
	for _, t := range catalog {
		for _, dt := range t.DocumentTypes {
			if dt == documentType {
				bt := t
				return &bt, nil
			}
		}
	}
	return nil, ErrUnknownType
}
