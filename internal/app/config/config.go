package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ghalamif/AlyvixCheck/internal/adapters/alyvix"
	"github.com/ghalamif/AlyvixCheck/internal/adapters/checkmk"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

type Config struct {
	Alyvix      alyvix.Config     `yaml:"alyvix"`
	Policy      PolicyConfig      `yaml:"policy"`
	Development DevelopmentConfig `yaml:"development"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Timescale   TimescaleConfig   `yaml:"timescale"`
	Log         LogConfig         `yaml:"log"`
}

type PolicyConfig struct {
	Style  string `yaml:"style"`
	Strict bool   `yaml:"strict"`
}

type DevelopmentConfig struct {
	Enabled bool   `yaml:"enabled"`
	Fixture string `yaml:"fixture"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type TimescaleConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize applies defaults and validates. Callers that change fields after
// Load (CLI overrides) call it again.
func (c *Config) Finalize() error {
	c.applyDefaults()
	return c.validate()
}

// Ports returns the pipeline policy described by the config.
func (c *Config) Ports() ports.Policy {
	return ports.Policy{
		Style:          c.Policy.Style,
		Strict:         c.Policy.Strict,
		RequestTimeout: c.Alyvix.Timeout,
	}
}

func (c *Config) applyDefaults() {
	if c.Policy.Style == "" {
		c.Policy.Style = string(checkmk.StyleLocalCheck)
	}
	if c.Development.Fixture == "" {
		c.Development.Fixture = alyvix.DefaultFixturePath
	}
	if c.Timescale.Table == "" {
		c.Timescale.Table = "alyvix_measures"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}

	c.Alyvix.ApplyDefaults()
}

func (c *Config) validate() error {
	if !c.Development.Enabled {
		if err := c.Alyvix.Validate(); err != nil {
			return fmt.Errorf("alyvix config: %w", err)
		}
	}
	style, err := checkmk.ParseStyle(c.Policy.Style)
	if err != nil {
		return fmt.Errorf("policy.style: %w", err)
	}
	c.Policy.Style = string(style)
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
