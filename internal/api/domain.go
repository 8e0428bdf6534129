package api

import (
	"github.com/chancerylabs/chancery/internal/analysis"
	"github.com/chancerylabs/chancery/internal/approvals"
	"github.com/chancerylabs/chancery/internal/business"
	"github.com/chancerylabs/chancery/internal/directory"
	"github.com/chancerylabs/chancery/internal/documents"
	"github.com/chancerylabs/chancery/internal/engine"
	"github.com/chancerylabs/chancery/internal/executions"
	"github.com/chancerylabs/chancery/internal/integrations"
	"github.com/chancerylabs/chancery/internal/notifications"
	"github.com/chancerylabs/chancery/internal/rules"
	"github.com/chancerylabs/chancery/internal/validation"
	"github.com/chancerylabs/chancery/internal/workflows"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents  documents.System
	Rules      rules.System
	Workflows  workflows.System
	Approvals  approvals.System
	Executions executions.System
	Groups     directory.System
	Validation *validation.Engine
	Analysis   *analysis.Service
	Business   *business.Service
	Engine     *engine.Engine
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	rulesSystem := rules.New(db, runtime.Logger, runtime.Pagination)

	documentsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	workflowsSystem := workflows.New(db, runtime.Logger, runtime.Pagination)
	approvalsSystem := approvals.New(db, runtime.Logger, runtime.Pagination)
	executionsSystem := executions.New(db, runtime.Logger, runtime.Pagination)
	groupsSystem := directory.New(db, runtime.Logger, runtime.Pagination)

	validationEngine := validation.New(rulesSystem, runtime.Logger)
	analysisService := analysis.New(documentsSystem, rulesSystem, runtime.Logger)
	businessService := business.New(rulesSystem, workflowsSystem, runtime.Logger)

	workflowEngine := engine.New(
		documentsSystem,
		workflowsSystem,
		executionsSystem,
		approvalsSystem,
		groupsSystem,
		integrations.New(runtime.Logger),
		notifications.New(runtime.Logger),
		runtime.Logger,
		runtime.ApprovalTTL,
	)

	return &Domain{
		Documents:  documentsSystem,
		Rules:      rulesSystem,
		Workflows:  workflowsSystem,
		Approvals:  approvalsSystem,
		Executions: executionsSystem,
		Groups:     groupsSystem,
		Validation: validationEngine,
		Analysis:   analysisService,
		Business:   businessService,
		Engine:     workflowEngine,
	}
}
