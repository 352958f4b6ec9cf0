package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/driver"
	"github.com/specialistvlad/actiongrid/internal/graph"
	"github.com/specialistvlad/actiongrid/internal/inmemorystore"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/resolver"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/stretchr/testify/require"
)

// outcome scripts what the fake driver does for one action.
type outcome func(ctx context.Context, sb *sandbox.Sandbox) (osproc.ExitStatus, error)

func succeed(ctx context.Context, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
	return osproc.ExitStatus{}, nil
}

func exitWith(code int) outcome {
	return func(ctx context.Context, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
		return osproc.ExitStatus{Code: code}, nil
	}
}

// blockUntilDone waits for the context like a long-running process would.
func blockUntilDone(started chan<- struct{}) outcome {
	return func(ctx context.Context, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
		if started != nil {
			close(started)
		}
		<-ctx.Done()
		return osproc.ExitStatus{Code: -1, Canceled: true}, ctx.Err()
	}
}

// fakeDriver records calls, tracks concurrency and plays scripted outcomes.
// Actions without a script succeed.
type fakeDriver struct {
	mu      sync.Mutex
	scripts map[string]outcome
	calls   []string

	running    atomic.Int32
	maxRunning atomic.Int32
}

func newFakeDriver(scripts map[string]outcome) *fakeDriver {
	return &fakeDriver{scripts: scripts}
}

func (f *fakeDriver) Execute(ctx context.Context, s *spec.ActionSpec, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		cur := f.maxRunning.Load()
		if n <= cur || f.maxRunning.CompareAndSwap(cur, n) {
			break
		}
	}

	key := s.ID().Key()
	f.mu.Lock()
	f.calls = append(f.calls, key)
	script := f.scripts[key]
	f.mu.Unlock()

	if script == nil {
		return succeed(ctx, sb)
	}
	return script(ctx, sb)
}

func (f *fakeDriver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// registry binds the fake to every kind.
func (f *fakeDriver) registry() *driver.Registry {
	r := driver.NewRegistry()
	for _, k := range spec.Kinds() {
		r.Register(k, f)
	}
	return r
}

// failingSandboxes refuses to create sandboxes for the listed actions.
type failingSandboxes struct {
	*sandbox.Manager
	refuse map[string]bool
}

func (f *failingSandboxes) Create(ctx context.Context, id actionid.ID, env map[string]string, limits spec.Limits) (*sandbox.Sandbox, error) {
	if f.refuse[id.Key()] {
		return nil, errors.New("disk full")
	}
	return f.Manager.Create(ctx, id, env, limits)
}

// faultyStore fails the transitions for which fail returns true.
type faultyStore struct {
	*inmemorystore.Store
	fail func(key string, from, to nodestore.Status) bool
}

func (f *faultyStore) CompareAndSwap(ctx context.Context, id actionid.ID, from, to nodestore.Status) (bool, error) {
	if f.fail(id.Key(), from, to) {
		return false, errors.New("store offline")
	}
	return f.Store.CompareAndSwap(ctx, id, from, to)
}

func newSandboxes(t *testing.T) *sandbox.Manager {
	t.Helper()
	m, err := sandbox.NewManager(sandbox.Options{Root: t.TempDir()})
	require.NoError(t, err)
	return m
}

func resolve(t *testing.T, ctx context.Context, requested []string, specs ...*spec.ActionSpec) *graph.Graph {
	t.Helper()
	ids := make([]actionid.ID, len(requested))
	for i, r := range requested {
		ids[i] = actionid.MustParse(r)
	}
	g, err := resolver.Resolve(ctx, ids, specs)
	require.NoError(t, err)
	return g
}
