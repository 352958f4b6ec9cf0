package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/specialistvlad/actiongrid/internal/config"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/driver"
	"github.com/specialistvlad/actiongrid/internal/executor"
	"github.com/specialistvlad/actiongrid/internal/hcl"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/yamlspec"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	drivers *driver.Registry
	environ []string

	ctx        context.Context
	httpServer *http.Server

	mu        sync.Mutex
	exec      *executor.Executor
	sandboxes *sandbox.Manager
}

// Option customizes an App.
type Option func(*App)

// WithLoader replaces the default HCL and YAML spec loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithDrivers replaces the default driver registry.
func WithDrivers(r *driver.Registry) Option {
	return func(a *App) { a.drivers = r }
}

// WithEnviron replaces the inherited process environment.
func WithEnviron(env []string) Option {
	return func(a *App) { a.environ = env }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. The process
// environment is captured here, once.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		environ: os.Environ(),
		ctx:     ctxlog.WithLogger(context.Background(), logger),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loader == nil {
		a.loader = DefaultLoader(cfg.Selectors)
	}
	if a.drivers == nil {
		a.drivers = driver.Default()
	}
	logger.Debug("App initialized.", "spec_paths", cfg.SpecPaths, "actions", cfg.Actions)
	return a
}

// DefaultLoader returns a loader for every supported spec format.
func DefaultLoader(selectors map[string]string) *config.MultiLoader {
	m := config.NewMultiLoader()
	m.Register(".hcl", hcl.NewLoader())
	y := yamlspec.NewLoader(selectors)
	m.Register(".yaml", y)
	m.Register(".yml", y)
	return m
}
