package api

import (
	"time"

	"github.com/chancerylabs/chancery/internal/config"
	"github.com/chancerylabs/chancery/internal/infrastructure"
	"github.com/chancerylabs/chancery/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	ApprovalTTL time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination:  cfg.API.Pagination,
		ApprovalTTL: cfg.Engine.ApprovalTTLDuration(),
	}
}
