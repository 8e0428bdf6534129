package api

import (
	"net/http"

	"github.com/chancerylabs/chancery/internal/analysis"
	"github.com/chancerylabs/chancery/internal/business"
	"github.com/chancerylabs/chancery/internal/config"
	"github.com/chancerylabs/chancery/internal/engine"
	"github.com/chancerylabs/chancery/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	groups := []routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes(), domain.Validation).Routes(),
		domain.Rules.Handler().Routes(),
		domain.Workflows.Handler().Routes(),
		domain.Approvals.Handler().Routes(),
		domain.Executions.Handler().Routes(),
		domain.Groups.Handler().Routes(),
		analysis.NewHandler(domain.Analysis, runtime.Logger).Routes(),
		business.NewHandler(domain.Business, runtime.Logger).Routes(),
		engine.NewHandler(domain.Engine, runtime.Logger).Routes(),
	}

	routes.Register(mux, groups...)

	registerSpec(mux, cfg, groups)
}
