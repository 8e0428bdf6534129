package config

import (
	"fmt"
	"os"
	"time"
)

const EnvEngineApprovalTTL = "CHANCERY_ENGINE_APPROVAL_TTL"

// EngineConfig holds workflow engine parameters.
type EngineConfig struct {
	ApprovalTTL string `toml:"approval_ttl"`
}

// ApprovalTTLDuration returns ApprovalTTL as a time.Duration.
func (c *EngineConfig) ApprovalTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.ApprovalTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.ApprovalTTL != "" {
		c.ApprovalTTL = overlay.ApprovalTTL
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.ApprovalTTL == "" {
		c.ApprovalTTL = "24h"
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineApprovalTTL); v != "" {
		c.ApprovalTTL = v
	}
}

func (c *EngineConfig) validate() error {
	if _, err := time.ParseDuration(c.ApprovalTTL); err != nil {
		return fmt.Errorf("invalid approval_ttl: %w", err)
	}
	return nil
}
