package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Driver executes one action inside its sandbox.
type Driver interface {
	Execute(ctx context.Context, s *spec.ActionSpec, sb *sandbox.Sandbox) (osproc.ExitStatus, error)
}

// DriverError reports a recipe the driver cannot interpret.
type DriverError struct {
	Kind   spec.Kind
	ID     actionid.ID
	Reason string
	Err    error
}

func (e *DriverError) Error() string {
	msg := fmt.Sprintf("%s driver: action %s: %s", e.Kind, e.ID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DriverError) Unwrap() error { return e.Err }

// Registry maps kinds to drivers.
type Registry struct {
	drivers map[spec.Kind]Driver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[spec.Kind]Driver)}
}

// Default returns a registry holding the build, test and install drivers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(spec.KindBuild, Build{})
	r.Register(spec.KindTest, Test{})
	r.Register(spec.KindInstall, Install{})
	return r
}

// Register binds d to kind. Registering a kind twice is a programming error.
func (r *Registry) Register(kind spec.Kind, d Driver) {
	if _, exists := r.drivers[kind]; exists {
		panic(fmt.Sprintf("driver for kind '%s' already registered", kind))
	}
	slog.Debug("Registering driver.", "kind", kind.String())
	r.drivers[kind] = d
}

// Lookup returns the driver bound to kind.
func (r *Registry) Lookup(kind spec.Kind) (Driver, bool) {
	d, ok := r.drivers[kind]
	return d, ok
}

// Validate fails if any of kinds has no driver.
func (r *Registry) Validate(kinds []spec.Kind) error {
	for _, k := range kinds {
		if _, ok := r.drivers[k]; !ok {
			return fmt.Errorf("no driver registered for kind '%s'", k)
		}
	}
	return nil
}

// runCommands executes cmds in order and stops at the first error or
// unsuccessful status. An empty list succeeds.
func runCommands(ctx context.Context, sb *sandbox.Sandbox, cmds [][]string, env map[string]string, expected int) (osproc.ExitStatus, error) {
	st := osproc.ExitStatus{ExpectedCode: expected, Code: expected}
	for _, argv := range cmds {
		var err error
		st, err = sb.Exec(ctx, argv, env)
		st.ExpectedCode = expected
		if err != nil || !st.Success() {
			return st, err
		}
	}
	return st, nil
}
