package alyvixcheck

import (
	"github.com/ghalamif/AlyvixCheck/internal/adapters/alyvix"
	"github.com/ghalamif/AlyvixCheck/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// AlyvixConfig describes how to reach the Alyvix Server.
	AlyvixConfig = alyvix.Config
	// PolicyConfig selects the output style and unknown-status handling.
	PolicyConfig      = config.PolicyConfig
	DevelopmentConfig = config.DevelopmentConfig
	MetricsConfig     = config.MetricsConfig
	TimescaleConfig   = config.TimescaleConfig
	LogConfig         = config.LogConfig
)

// LoadConfig reads YAML from disk, applies defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
