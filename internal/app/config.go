package app

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/specialistvlad/actiongrid/internal/yamlspec"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SpecPaths []string // spec files or directories
	Actions   []string // requested action references

	Workers       int
	RunTimeout    time.Duration
	Env           map[string]string // overrides the inherited environment
	SandboxRoot   string
	KeepSandboxes bool
	Selectors     map[string]string // YAML case selectors

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SpecPaths) == 0 {
		return nil, errors.New("at least one spec path is required")
	}
	if len(cfg.Actions) == 0 {
		return nil, errors.New("at least one action must be requested")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.RunTimeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.RunTimeout)
	}
	if cfg.SandboxRoot == "" {
		cfg.SandboxRoot = filepath.Join(os.TempDir(), "actiongrid")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	selectors := yamlspec.DefaultSelectors()
	maps.Copy(selectors, cfg.Selectors)
	cfg.Selectors = selectors

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return &cfg, nil
}
