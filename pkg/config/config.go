// Package config loads the process-wide configuration file: defaults for
// resource/output locations, logging, and the action.Config baseline
// every task's own config block overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilkoid/taskcore/pkg/block"
	"gopkg.in/yaml.v3"
)

// AppConfig is the root structure a taskcore.yaml file decodes into.
type AppConfig struct {
	Subject     string                `yaml:"subject"`
	ResourceDir string                `yaml:"resource_dir"`
	OutputDir   string                `yaml:"output_dir"`
	LogLevel    string                `yaml:"log_level"`
	LogPretty   bool                  `yaml:"log_pretty"`
	Defaults    *block.ConfigOverride `yaml:"defaults"`
}

// Load reads path, expands ${VAR}/$VAR references against the process
// environment, and decodes the result.
func Load(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.LogLevel != "" {
		switch c.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log_level must be one of debug|info|warn|error, got %q", c.LogLevel)
		}
	}
	return nil
}
