//go:build windows

package osproc

import (
	"os"
	"testing"
	"time"

	"github.com/specialistvlad/actiongrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmdShell(script string) Command {
	return Command{Path: "cmd", Args: []string{"/c", script}, Env: os.Environ()}
}

func TestRun_ResumesSuspendedChild(t *testing.T) {
	ctx, _ := testutil.Context(t)
	var stdout testutil.SafeBuffer
	c := cmdShell("echo started& exit 3")
	c.Stdout = &stdout

	st, err := Run(ctx, c, 10*time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Code)
	assert.Contains(t, stdout.String(), "started")
}

// TestRun_KillsImmediateGrandchild checks that a grandchild spawned as the
// first thing the child does is in the job. It holds the stdout pipe, so Run
// would block for the pipe drain delay if it escaped the kill.
func TestRun_KillsImmediateGrandchild(t *testing.T) {
	ctx, _ := testutil.Context(t)
	var stdout testutil.SafeBuffer
	c := cmdShell("ping -n 30 127.0.0.1")
	c.Stdout = &stdout

	start := time.Now()
	st, err := Run(ctx, c, 300*time.Millisecond, 0)
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.True(t, st.TimedOut)
	assert.Less(t, time.Since(start), waitDelay)
}
