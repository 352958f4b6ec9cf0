// Package testutil holds helpers shared by package tests: a thread-safe log
// buffer, a logger-carrying context and compact spec builders.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug logger that writes into the
// returned buffer. Set AG_TEST_LOGS=true to dump the buffer after the test.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("AG_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// SpecOption tweaks the Params used by MustSpec.
type SpecOption func(*spec.Params)

// Kind sets the kind tag. MustSpec defaults to "build".
func Kind(kind string) SpecOption {
	return func(p *spec.Params) { p.Kind = kind }
}

// Deps sets the declared dependencies.
func Deps(deps ...string) SpecOption {
	return func(p *spec.Params) { p.DependsOn = deps }
}

// Qualifiers sets the qualifier set.
func Qualifiers(q map[string]string) SpecOption {
	return func(p *spec.Params) { p.Qualifiers = q }
}

// Env sets the action-declared environment.
func Env(env map[string]string) SpecOption {
	return func(p *spec.Params) { p.Env = env }
}

// Limits sets the action limits.
func Limits(l spec.Limits) SpecOption {
	return func(p *spec.Params) { p.Limits = l }
}

// Recipe sets the recipe payload.
func Recipe(v cty.Value) SpecOption {
	return func(p *spec.Params) { p.Recipe = v }
}

// MustSpec builds a spec or fails the test.
func MustSpec(t testing.TB, name string, opts ...SpecOption) *spec.ActionSpec {
	t.Helper()
	p := spec.Params{Name: name, Kind: "build", Source: "test"}
	for _, opt := range opts {
		opt(&p)
	}
	s, err := spec.New(p)
	require.NoError(t, err)
	return s
}

// Commands builds a cty list of argv lists, the shape drivers expect.
func Commands(argvs ...[]string) cty.Value {
	if len(argvs) == 0 {
		return cty.ListValEmpty(cty.List(cty.String))
	}
	vals := make([]cty.Value, len(argvs))
	for i, argv := range argvs {
		if len(argv) == 0 {
			vals[i] = cty.ListValEmpty(cty.String)
			continue
		}
		args := make([]cty.Value, len(argv))
		for j, a := range argv {
			args[j] = cty.StringVal(a)
		}
		vals[i] = cty.ListVal(args)
	}
	return cty.ListVal(vals)
}
