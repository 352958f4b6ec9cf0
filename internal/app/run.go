package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/executor"
	"github.com/specialistvlad/actiongrid/internal/resolver"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
)

// ErrResolution wraps every failure that happens before execution starts:
// unreadable or invalid specs, bad action references, cycles, unresolved or
// ambiguous dependencies and kinds without a driver.
var ErrResolution = errors.New("resolution failed")

// Run loads the specs, resolves the requested actions and executes them.
//
// The result is non-nil whenever execution started. The error wraps
// ErrResolution for failures before execution, and otherwise is the
// executor's run error.
func (a *App) Run(ctx context.Context) (*executor.RunResult, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	specs, err := a.loader.Load(ctx, a.config.SpecPaths...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	a.logger.Info("Specs loaded.", "actions", len(specs))

	requested := make([]actionid.ID, 0, len(a.config.Actions))
	for _, raw := range a.config.Actions {
		id, err := actionid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: requested action: %w", ErrResolution, err)
		}
		requested = append(requested, id)
	}

	g, err := resolver.Resolve(ctx, requested, specs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	if err := a.drivers.Validate(g.Kinds()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", g.Len())

	sandboxes, err := sandbox.NewManager(sandbox.Options{
		Root:       a.config.SandboxRoot,
		Inherited:  a.environ,
		RunEnv:     a.config.Env,
		KeepOnExit: a.config.KeepSandboxes,
	})
	if err != nil {
		return nil, err
	}

	exec := executor.New(g, executor.Options{
		Sandboxes:  sandboxes,
		Drivers:    a.drivers,
		Workers:    a.config.Workers,
		RunTimeout: a.config.RunTimeout,
	})
	a.mu.Lock()
	a.exec, a.sandboxes = exec, sandboxes
	a.mu.Unlock()

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(); err != nil {
			return nil, err
		}
		defer func() {
			_ = a.closeHealthcheckServer()
		}()
	}

	result, err := exec.Run(ctx)
	if err != nil && result == nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Debug("App.Run method finished.", "succeeded", result.Succeeded())
	return result, err
}
