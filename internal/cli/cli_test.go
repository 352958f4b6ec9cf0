package cli

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AllFlags(t *testing.T) {
	// --- Arrange ---
	args := []string{
		"-spec", "a.hcl", "-spec", "dir",
		"-workers", "3",
		"-timeout", "90s",
		"-env", "CC=clang", "-env", "EMPTY=",
		"-select", "flavor=debug",
		"-sandbox-root", "/tmp/sb",
		"-keep-sandboxes",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"-healthcheck-port", "8080",
		"compile[os=linux]", "unit",
	}
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse(args, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, []string{"a.hcl", "dir"}, cfg.SpecPaths)
	assert.Equal(t, []string{"compile[os=linux]", "unit"}, cfg.Actions)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.RunTimeout)
	assert.Equal(t, map[string]string{"CC": "clang", "EMPTY": ""}, cfg.Env)
	assert.Equal(t, "debug", cfg.Selectors["flavor"])
	assert.Equal(t, runtime.GOOS, cfg.Selectors["os"])
	assert.Equal(t, "/tmp/sb", cfg.SandboxRoot)
	assert.True(t, cfg.KeepSandboxes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.HealthcheckPort)
}

func TestParse_DefaultsSpecToCurrentDir(t *testing.T) {
	cfg, _, err := Parse([]string{"compile"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.SpecPaths)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestParse_HelpAndNoArgs(t *testing.T) {
	for name, args := range map[string][]string{
		"help":    {"-h"},
		"no args": {},
	} {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(args, out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"unknown flag":     {[]string{"-nope"}, "flag provided but not defined"},
		"bad env pair":     {[]string{"-env", "NOEQUALS", "a"}, "must be KEY=VALUE"},
		"bad selector":     {[]string{"-select", "=x", "a"}, "must be KEY=VALUE"},
		"bad log format":   {[]string{"-log-format", "xml", "a"}, "invalid log-format"},
		"bad log level":    {[]string{"-log-level", "trace", "a"}, "invalid log-level"},
		"spec but no ask":  {[]string{"-spec", "a.hcl"}, "at least one action"},
		"negative workers": {[]string{"-workers", "-2", "a"}, "workers"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
