package executor

import (
	"errors"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

var (
	// ErrCanceled is reported when the run's parent context ends early.
	ErrCanceled = errors.New("run canceled")
	// ErrUpstream is wrapped into the error of actions skipped because a
	// dependency did not succeed.
	ErrUpstream = errors.New("dependency did not succeed")
	// ErrUnsuccessful is wrapped into the error of actions whose commands
	// completed with an unsuccessful status.
	ErrUnsuccessful = errors.New("action did not succeed")
	// ErrStore is wrapped into the run error when the state store fails
	// mid-run. The run stops as if canceled.
	ErrStore = errors.New("state store failed")
)

// ActionResult is the outcome of one action.
type ActionResult struct {
	ID      actionid.ID
	Kind    spec.Kind
	State   nodestore.Status
	Stdout  string
	Stderr  string
	Status  osproc.ExitStatus
	Err     error
	Started time.Time
	Elapsed time.Duration
}

// RunResult aggregates a run. Actions are listed in topological order.
type RunResult struct {
	Actions []ActionResult
	Elapsed time.Duration
	// Cause is ErrCanceled, osproc.ErrTimedOut or an error wrapping ErrStore
	// when the run ended early.
	Cause error
}

// Succeeded reports whether every action succeeded.
func (r *RunResult) Succeeded() bool {
	for _, a := range r.Actions {
		if a.State != nodestore.StatusSucceeded {
			return false
		}
	}
	return true
}

// Count returns how many actions ended in state.
func (r *RunResult) Count(state nodestore.Status) int {
	n := 0
	for _, a := range r.Actions {
		if a.State == state {
			n++
		}
	}
	return n
}

// Lookup returns the result of id.
func (r *RunResult) Lookup(id actionid.ID) (ActionResult, bool) {
	for _, a := range r.Actions {
		if a.ID.Equal(id) {
			return a, true
		}
	}
	return ActionResult{}, false
}
