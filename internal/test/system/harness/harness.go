// Package harness runs whole actiongrid runs from inline spec files for the
// system tests.
package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/actiongrid/internal/app"
	"github.com/specialistvlad/actiongrid/internal/executor"
	"github.com/specialistvlad/actiongrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Result is everything a system test inspects after a run.
type Result struct {
	Run  *executor.RunResult
	Err  error
	Logs *testutil.SafeBuffer
	// SandboxRoot is where the run created its sandboxes.
	SandboxRoot string
}

// WriteSpecs writes files (name to content) into a fresh directory and
// returns it.
func WriteSpecs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Run loads files, requests actions and runs them to completion. mutate may
// adjust the configuration before validation.
func Run(t *testing.T, files map[string]string, mutate func(*app.Config), actions ...string) Result {
	t.Helper()
	return RunContext(context.Background(), t, files, mutate, actions...)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, t *testing.T, files map[string]string, mutate func(*app.Config), actions ...string) Result {
	t.Helper()
	raw := app.Config{
		SpecPaths:   []string{WriteSpecs(t, files)},
		Actions:     actions,
		Workers:     4,
		SandboxRoot: t.TempDir(),
		LogLevel:    "debug",
	}
	if mutate != nil {
		mutate(&raw)
	}
	cfg, err := app.NewConfig(raw)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("AG_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	a := app.NewApp(logs, cfg, app.WithEnviron([]string{"PATH=" + os.Getenv("PATH")}))
	run, err := a.Run(ctx)
	return Result{Run: run, Err: err, Logs: logs, SandboxRoot: cfg.SandboxRoot}
}
