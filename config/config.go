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

	"github.com/kilianp07/gridstudy/core/factory"
	"github.com/kilianp07/gridstudy/core/metrics"
)

// EnvPrefix prefixes environment overrides: GS_STUDY__OUTPUT_NAME sets
// study.output_name.
const EnvPrefix = "GS_"

type Config struct {
	Study   StudyConfig            `json:"study"`
	Solver  factory.ModuleConfig   `json:"solver"`
	Sinks   []factory.ModuleConfig `json:"sinks"`
	Logging LoggingConfig          `json:"logging"`
	Metrics metrics.Config         `json:"metrics"`
	Sentry  SentryConfig           `json:"sentry"`
}

// Load reads a YAML or JSON configuration file, applies environment
// overrides, then defaults, and validates the result.
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
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Study.SetDefaults()
	c.Logging.SetDefaults()
	if c.Solver.Type == "" {
		c.Solver.Type = "exec"
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Study.Validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return nil
}
