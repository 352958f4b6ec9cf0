//go:build !windows

package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/specialistvlad/actiongrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, mutate func(*Options)) *Manager {
	t.Helper()
	opts := Options{
		Root:      filepath.Join(t.TempDir(), "sandboxes"),
		Salt:      "fixed-salt",
		Inherited: []string{"PATH=" + os.Getenv("PATH"), "HOME=/home/ci", "CC=gcc", "TMPDIR=/should/not/leak"},
	}
	if mutate != nil {
		mutate(&opts)
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func TestCreate_LayoutAndDeterministicDir(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, nil)
	id := actionid.MustParse("lib/compile[os=linux]")

	sb, err := m.Create(ctx, id, nil, spec.Limits{})
	require.NoError(t, err)
	defer m.Destroy(ctx, sb)

	assert.Equal(t, m.Dir(id), sb.Root())
	assert.True(t, strings.HasPrefix(filepath.Base(sb.Root()), "lib_compile-"))
	assert.DirExists(t, sb.WorkDir())
	assert.DirExists(t, sb.TmpDir())
	assert.Equal(t, 1, m.Active())

	// A second sandbox for the same identity in the same run is refused.
	_, err = m.Create(ctx, id, nil, spec.Limits{})
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestCreate_RefusedAfterContextEnds(t *testing.T) {
	base, _ := testutil.Context(t)
	ctx, cancel := context.WithCancel(base)
	m := newManager(t, nil)
	id := actionid.MustParse("compile")
	cancel()

	sb, err := m.Create(ctx, id, nil, spec.Limits{})

	assert.Nil(t, sb)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, m.Dir(id))
	assert.Equal(t, 0, m.Active())
}

func TestDir_DistinctPerVariantAndSalt(t *testing.T) {
	a := newManager(t, nil)
	b := newManager(t, func(o *Options) { o.Salt = "another-run" })

	linux := actionid.MustParse("compile[os=linux]")
	windows := actionid.MustParse("compile[os=windows]")

	assert.NotEqual(t, filepath.Base(a.Dir(linux)), filepath.Base(a.Dir(windows)))
	assert.NotEqual(t, filepath.Base(a.Dir(linux)), filepath.Base(b.Dir(linux)))
	assert.Equal(t, a.Dir(linux), a.Dir(actionid.MustParse("compile[os=linux]")))
}

func TestEnv_Precedence(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, func(o *Options) {
		o.RunEnv = map[string]string{"CC": "clang", "MODE": "release"}
	})

	sb, err := m.Create(ctx, actionid.MustParse("a"), map[string]string{"MODE": "debug", "ACTIONGRID_ACTION": "override"}, spec.Limits{})
	require.NoError(t, err)
	defer m.Destroy(ctx, sb)

	env := osproc.EnvMap(sb.Env())
	assert.Equal(t, "/home/ci", env["HOME"], "inherited")
	assert.Equal(t, "clang", env["CC"], "run overrides inherited")
	assert.Equal(t, sb.TmpDir(), env["TMPDIR"], "sandbox overrides inherited")
	assert.Equal(t, sb.TmpDir(), env["TEMP"])
	assert.Equal(t, sb.Root(), env["ACTIONGRID_SANDBOX"])
	assert.Equal(t, "debug", env["MODE"], "action overrides run")
	assert.Equal(t, "override", env["ACTIONGRID_ACTION"], "action overrides sandbox")
}

func TestExec_RunsInWorkDirAndCaptures(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, nil)
	sb, err := m.Create(ctx, actionid.MustParse("a"), map[string]string{"GREETING": "hi"}, spec.Limits{})
	require.NoError(t, err)
	defer m.Destroy(ctx, sb)

	st, err := sb.Exec(ctx, []string{"sh", "-c", `echo "$GREETING $EXTRA" > out.txt; cat out.txt; echo oops >&2`}, map[string]string{"EXTRA": "there"})
	require.NoError(t, err)
	assert.True(t, st.Success())
	assert.Equal(t, "hi there\n", sb.Stdout())
	assert.Equal(t, "oops\n", sb.Stderr())
	assert.FileExists(t, filepath.Join(sb.WorkDir(), "out.txt"))

	// Output accumulates across commands.
	_, err = sb.Exec(ctx, []string{"sh", "-c", "echo second"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there\nsecond\n", sb.Stdout())

	_, err = sb.Exec(ctx, nil, nil)
	assert.Error(t, err)
}

func TestExec_HonorsDeadline(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, nil)
	sb, err := m.Create(ctx, actionid.MustParse("slow"), nil, spec.Limits{Timeout: 200 * time.Millisecond, KillGrace: 50 * time.Millisecond})
	require.NoError(t, err)
	defer m.Destroy(ctx, sb)

	start := time.Now()
	st, err := sb.Exec(ctx, []string{"sh", "-c", "sleep 30"}, nil)
	assert.ErrorIs(t, err, osproc.ErrTimedOut)
	assert.True(t, st.TimedOut)
	assert.Less(t, time.Since(start), 10*time.Second)

	// The deadline is absolute: later commands get no time at all.
	st, err = sb.Exec(ctx, []string{"true"}, nil)
	assert.ErrorIs(t, err, osproc.ErrTimedOut)
	assert.True(t, st.TimedOut)
}

func TestDestroy_IdempotentAndRemovesReadOnlyFiles(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, nil)
	sb, err := m.Create(ctx, actionid.MustParse("a"), nil, spec.Limits{})
	require.NoError(t, err)

	_, err = sb.Exec(ctx, []string{"sh", "-c", "mkdir -p ro && echo x > ro/f && chmod 444 ro/f && chmod 555 ro"}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Destroy(ctx, sb))
		}()
	}
	wg.Wait()

	assert.NoDirExists(t, sb.Root())
	assert.Equal(t, 0, m.Active())
}

func TestDestroy_KeepOnExit(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := newManager(t, func(o *Options) { o.KeepOnExit = true })
	sb, err := m.Create(ctx, actionid.MustParse("a"), nil, spec.Limits{})
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, sb))
	assert.DirExists(t, sb.Root())
	assert.Equal(t, 0, m.Active())
}

func TestNewManager_Defaults(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)

	a := newManager(t, func(o *Options) { o.Salt = "" })
	b := newManager(t, func(o *Options) { o.Salt = "" })
	id := actionid.MustParse("a")
	assert.NotEqual(t, filepath.Base(a.Dir(id)), filepath.Base(b.Dir(id)), "fresh salt per manager")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "lib_compile", slug("lib/compile"))
	assert.Equal(t, "action", slug("..."))
	assert.Len(t, slug(strings.Repeat("x", 100)), maxSlugLen)
}
