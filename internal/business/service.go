package business

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chancerylabs/chancery/internal/rules"
	"github.com/chancerylabs/chancery/internal/workflows"
)

// RuleCatalog is the slice of the rules system the service needs.
// Implemented by rules.System.
type RuleCatalog interface {
	ListActiveByDocumentTypes(ctx context.Context, documentTypes []string) ([]rules.Rule, error)
	CountByDocumentTypes(ctx context.Context, documentTypes []string) (total, active int, err error)
	SetActiveByDocumentTypes(ctx context.Context, documentTypes []string, active bool) (int, error)
}

// WorkflowCatalog is the slice of the workflows system the service needs.
// Implemented by workflows.System.
type WorkflowCatalog interface {
	ListByNameContains(ctx context.Context, fragment string) ([]workflows.Workflow, error)
	SetActiveByNameContains(ctx context.Context, fragment string, active bool) (int, error)
}

// Detail is the full configuration of a business type: its catalog entry
// plus the rules, workflows, and templates currently associated with it.
type Detail struct {
	Type
	Rules     []rules.Rule          `json:"validation_rules"`
	Workflows []workflows.Workflow  `json:"workflows"`
	Templates []IntegrationTemplate `json:"integration_templates"`
}

// ToggleResult reports a bulk activation or deactivation.
type ToggleResult struct {
	BusinessType     string `json:"business_type"`
	RulesChanged     int    `json:"rules_changed"`
	WorkflowsChanged int    `json:"workflows_changed"`
	Status           string `json:"status"`
}

// Service manages business types over the rule and workflow catalogs.
type Service struct {
	rules     RuleCatalog
	workflows WorkflowCatalog
	logger    *slog.Logger
}

// New creates a business type service.
func New(ruleCatalog RuleCatalog, workflowCatalog WorkflowCatalog, logger *slog.Logger) *Service {
	return &Service{
		rules:     ruleCatalog,
		workflows: workflowCatalog,
		logger:    logger.With("system", "business"),
	}
}

// List returns every business type with its configuration state. A type is
// configured once at least one rule exists for its document types.
func (s *Service) List(ctx context.Context) ([]Overview, error) {
	overviews := make([]Overview, 0, len(catalog))

	for _, bt := range catalog {
		total, active, err := s.rules.CountByDocumentTypes(ctx, bt.DocumentTypes)
		if err != nil {
			return nil, fmt.Errorf("count rules for %s: %w", bt.Key, err)
		}

		overviews = append(overviews, Overview{
			Type:                 bt,
			TotalRules:           total,
			ActiveRules:          active,
			IntegrationTemplates: len(TemplatesFor(&bt)),
			IsConfigured:         total > 0,
		})
	}

	return overviews, nil
}

// Find returns the active rules, matching workflows, and templates for a
// business type.
func (s *Service) Find(ctx context.Context, key string) (*Detail, error) {
	bt, err := TypeFor(key)
	if err != nil {
		return nil, err
	}

	activeRules, err := s.rules.ListActiveByDocumentTypes(ctx, bt.DocumentTypes)
	if err != nil {
		return nil, fmt.Errorf("load rules for %s: %w", key, err)
	}

	flows, err := s.workflows.ListByNameContains(ctx, nameFragment(key))
	if err != nil {
		return nil, fmt.Errorf("load workflows for %s: %w", key, err)
	}

	return &Detail{
		Type:      *bt,
		Rules:     activeRules,
		Workflows: flows,
		Templates: TemplatesFor(bt),
	}, nil
}

// SetActive toggles every rule covering the business type's document types
// and every workflow named for the type.
func (s *Service) SetActive(ctx context.Context, key string, active bool) (*ToggleResult, error) {
	bt, err := TypeFor(key)
	if err != nil {
		return nil, err
	}

	rulesChanged, err := s.rules.SetActiveByDocumentTypes(ctx, bt.DocumentTypes, active)
	if err != nil {
		return nil, fmt.Errorf("toggle rules for %s: %w", key, err)
	}

	workflowsChanged, err := s.workflows.SetActiveByNameContains(ctx, nameFragment(key), active)
	if err != nil {
		return nil, fmt.Errorf("toggle workflows for %s: %w", key, err)
	}

	status := "deactivated"
	if active {
		status = "activated"
	}

	s.logger.Info("business type toggled",
		"business_type", key,
		"status", status,
		"rules_changed", rulesChanged,
		"workflows_changed", workflowsChanged,
	)

	return &ToggleResult{
		BusinessType:     key,
		RulesChanged:     rulesChanged,
		WorkflowsChanged: workflowsChanged,
		Status:           status,
	}, nil
}

// RecommendedIntegrations ranks the business type's integration templates.
func (s *Service) RecommendedIntegrations(key string) ([]ScoredTemplate, error) {
	bt, err := TypeFor(key)
	if err != nil {
		return nil, err
	}
	return Recommend(bt), nil
}
