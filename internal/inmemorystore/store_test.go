package inmemorystore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndStatus(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := actionid.MustParse("compile[os=linux]")
	require.NoError(t, s.Init(ctx, []actionid.ID{a}))

	status, err := s.Status(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, nodestore.StatusPending, status)

	_, err = s.Status(ctx, actionid.MustParse("compile"))
	assert.ErrorIs(t, err, nodestore.ErrUnknownAction)
}

func TestCompareAndSwap(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := actionid.MustParse("a")
	require.NoError(t, s.Init(ctx, []actionid.ID{a}))

	ok, err := s.CompareAndSwap(ctx, a, nodestore.StatusPending, nodestore.StatusReady)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale expectation: no swap, no error.
	ok, err = s.CompareAndSwap(ctx, a, nodestore.StatusPending, nodestore.StatusSkipped)
	require.NoError(t, err)
	assert.False(t, ok)

	// Transition outside the table.
	ok, err = s.CompareAndSwap(ctx, a, nodestore.StatusReady, nodestore.StatusSucceeded)
	assert.False(t, ok)
	var terr *nodestore.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, nodestore.StatusReady, terr.From)
	assert.Equal(t, nodestore.StatusSucceeded, terr.To)

	status, err := s.Status(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, nodestore.StatusReady, status)

	_, err = s.CompareAndSwap(ctx, actionid.MustParse("b"), nodestore.StatusPending, nodestore.StatusReady)
	assert.ErrorIs(t, err, nodestore.ErrUnknownAction)
}

func TestSetAndGetError(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := actionid.MustParse("a")
	require.NoError(t, s.Init(ctx, []actionid.ID{a}))

	got, err := s.GetError(ctx, a)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := errors.New("a test error occurred")
	require.NoError(t, s.SetError(ctx, a, want))
	got, err = s.GetError(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.ErrorIs(t, s.SetError(ctx, actionid.MustParse("b"), want), nodestore.ErrUnknownAction)
}

func TestInitResets(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, b := actionid.MustParse("a"), actionid.MustParse("b")
	require.NoError(t, s.Init(ctx, []actionid.ID{a}))
	_, err := s.CompareAndSwap(ctx, a, nodestore.StatusPending, nodestore.StatusSkipped)
	require.NoError(t, err)

	require.NoError(t, s.Init(ctx, []actionid.ID{b}))
	want := map[string]nodestore.Status{"b": nodestore.StatusPending}
	if diff := cmp.Diff(want, s.Snapshot(ctx)); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

// TestStore_ConcurrentSwapsHaveOneWinner verifies that racing transitions on
// the same action admit exactly one winner.
func TestStore_ConcurrentSwapsHaveOneWinner(t *testing.T) {
	s := New()
	ctx := context.Background()
	numActions := 50
	numGoroutines := 8

	ids := make([]actionid.ID, numActions)
	for i := range ids {
		ids[i] = actionid.MustParse(fmt.Sprintf("a%d", i))
	}
	require.NoError(t, s.Init(ctx, ids))
	for _, id := range ids {
		ok, err := s.CompareAndSwap(ctx, id, nodestore.StatusPending, nodestore.StatusReady)
		require.NoError(t, err)
		require.True(t, ok)
	}

	var running, skipped atomic.Int64
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func(g int) {
			defer wg.Done()
			to := nodestore.StatusRunning
			if g%2 == 1 {
				to = nodestore.StatusSkipped
			}
			for _, id := range ids {
				ok, err := s.CompareAndSwap(ctx, id, nodestore.StatusReady, to)
				assert.NoError(t, err)
				if ok && to == nodestore.StatusRunning {
					running.Add(1)
				} else if ok {
					skipped.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(numActions), running.Load()+skipped.Load())
	for _, st := range s.Snapshot(ctx) {
		assert.Contains(t, []nodestore.Status{nodestore.StatusRunning, nodestore.StatusSkipped}, st)
	}
}
