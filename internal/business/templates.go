package business

import (
	"sort"
	"strings"
)

// Connector kinds a template can target.
const (
	ConnectorQuickBooks = "quickbooks"
	ConnectorSAPERP     = "sap_erp"
	ConnectorSalesforce = "salesforce"
	ConnectorCustomAPI  = "custom_api"
	ConnectorWebhook    = "webhook"
)

// IntegrationTemplate is a preconfigured external-system integration a
// business type can adopt. A template becomes live when its configuration
// is attached to an integration workflow step.
type IntegrationTemplate struct {
	Name                   string   `json:"name"`
	IntegrationType        string   `json:"integration_type"`
	Description            string   `json:"description"`
	SupportedDocumentTypes []string `json:"supported_document_types"`
}

// ScoredTemplate is an IntegrationTemplate ranked for a business type.
type ScoredTemplate struct {
	IntegrationTemplate
	RecommendationScore float64 `json:"recommendation_score"`
}

var templates = []IntegrationTemplate{
	{
		Name:                   "Restaurant QuickBooks Integration",
		IntegrationType:        ConnectorQuickBooks,
		Description:            "Integration with QuickBooks accounting software",
		SupportedDocumentTypes: []string{"restaurant_invoice", "restaurant_receipt", "restaurant_purchase_order"},
	},
	{
		Name:                   "Restaurant POS Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with point-of-sale systems",
		SupportedDocumentTypes: []string{"restaurant_receipt", "daily_sales_report"},
	},
	{
		Name:                   "Restaurant Inventory Management",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with inventory management systems",
		SupportedDocumentTypes: []string{"restaurant_invoice", "restaurant_purchase_order", "inventory_receipt"},
	},
	{
		Name:                   "Restaurant Food Safety Compliance",
		IntegrationType:        ConnectorWebhook,
		Description:            "Integration with food safety compliance system",
		SupportedDocumentTypes: []string{"restaurant_invoice", "food_safety_cert", "supplier_audit"},
	},
	{
		Name:                   "Retail Shopify Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with Shopify e-commerce platform",
		SupportedDocumentTypes: []string{"retail_invoice", "retail_receipt", "shipping_label"},
	},
	{
		Name:                   "Retail Square POS Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with Square point-of-sale platform",
		SupportedDocumentTypes: []string{"retail_receipt", "daily_sales_report"},
	},
	{
		Name:                   "Retail WooCommerce Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with WooCommerce e-commerce platform",
		SupportedDocumentTypes: []string{"retail_invoice", "retail_receipt"},
	},
	{
		Name:                   "Manufacturing SAP ERP Integration",
		IntegrationType:        ConnectorSAPERP,
		Description:            "Integration with SAP ERP system",
		SupportedDocumentTypes: []string{"manufacturing_invoice", "manufacturing_purchase_order", "quality_certificate"},
	},
	{
		Name:                   "Manufacturing MES Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with manufacturing execution systems",
		SupportedDocumentTypes: []string{"production_order", "quality_report", "material_consumption"},
	},
	{
		Name:                   "Manufacturing Quality Management",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with quality management systems",
		SupportedDocumentTypes: []string{"quality_certificate", "inspection_report", "calibration_record"},
	},
	{
		Name:                   "Healthcare EMR Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with electronic medical record systems",
		SupportedDocumentTypes: []string{"healthcare_invoice", "medical_record", "prescription"},
	},
	{
		Name:                   "Healthcare Insurance Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with insurance claim processing systems",
		SupportedDocumentTypes: []string{"healthcare_invoice", "insurance_claim", "eob"},
	},
	{
		Name:                   "Healthcare Lab Integration",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with laboratory information systems",
		SupportedDocumentTypes: []string{"lab_order", "lab_result", "pathology_report"},
	},
	{
		Name:                   "Construction Project Management",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with construction project management software",
		SupportedDocumentTypes: []string{"construction_invoice", "construction_purchase_order", "project_report"},
	},
	{
		Name:                   "Construction Safety Management",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with safety management systems",
		SupportedDocumentTypes: []string{"safety_report", "incident_report", "inspection_checklist"},
	},
	{
		Name:                   "Construction Equipment Management",
		IntegrationType:        ConnectorCustomAPI,
		Description:            "Integration with equipment management systems",
		SupportedDocumentTypes: []string{"equipment_invoice", "maintenance_record", "rental_agreement"},
	},
}

// TemplatesFor returns the templates whose name mentions the business type.
func TemplatesFor(bt *Type) []IntegrationTemplate {
	fragment := nameFragment(bt.Key)
	matched := make([]IntegrationTemplate, 0)
	for _, tpl := range templates {
		if strings.Contains(strings.ToLower(tpl.Name), fragment) {
			matched = append(matched, tpl)
		}
	}
	return matched
}

// Recommend ranks the business type's templates. The score rewards a name
// match, coverage of the type's document types, and connector kind.
func Recommend(bt *Type) []ScoredTemplate {
	matched := TemplatesFor(bt)

	scored := make([]ScoredTemplate, 0, len(matched))
	for _, tpl := range matched {
		scored = append(scored, ScoredTemplate{
			IntegrationTemplate: tpl,
			RecommendationScore: score(tpl, bt),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RecommendationScore > scored[j].RecommendationScore
	})

	return scored
}

func score(tpl IntegrationTemplate, bt *Type) float64 {
	var s float64

	if strings.Contains(strings.ToLower(tpl.Name), nameFragment(bt.Key)) {
		s += 10.0
	}

	if len(bt.DocumentTypes) > 0 {
		matched := 0
		for _, dt := range tpl.SupportedDocumentTypes {
			for _, want := range bt.DocumentTypes {
				if dt == want {
					matched++
					break
				}
			}
		}
		s += float64(matched) / float64(len(bt.DocumentTypes)) * 5.0
	}

	switch tpl.IntegrationType {
	case ConnectorQuickBooks, ConnectorSAPERP, ConnectorSalesforce:
		s += 3.0
	case ConnectorCustomAPI:
		s += 2.0
	case ConnectorWebhook:
		s += 1.0
	}

	return s
}

// nameFragment is the case-folded form of a business type key used for
// name matching. Multi-word keys use underscores in the catalog but spaces
// in workflow and template names.
func nameFragment(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", " "))
}
