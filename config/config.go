// Package config loads the checker configuration from YAML or JSON with
// optional environment overrides. All paths are explicit; nothing is derived
// from the working directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Logging   LoggingConfig   `json:"logging"`
	Render    RenderConfig    `json:"render"`
	Metrics   MetricsConfig   `json:"metrics"`
	Publisher PublisherConfig `json:"publisher"`
}

// Load reads the configuration file at path. Environment variables prefixed
// with OC_ override file values, with __ separating nesting levels
// (e.g. OC_PATHS__RESULTS_DIR).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("OC_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "oc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	c.Paths.SetDefaults()
	c.Logging.SetDefaults()
	c.Render.SetDefaults()
	c.Metrics.SetDefaults()
	c.Publisher.SetDefaults()
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Paths.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Publisher.Validate()
}

// Default returns a configuration with every section at its defaults, for
// runs without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
