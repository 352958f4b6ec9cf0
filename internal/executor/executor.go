package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/driver"
	"github.com/specialistvlad/actiongrid/internal/graph"
	"github.com/specialistvlad/actiongrid/internal/inmemorystore"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"golang.org/x/sync/errgroup"
)

// Sandboxes creates and destroys action sandboxes. *sandbox.Manager is the
// production implementation.
type Sandboxes interface {
	Create(ctx context.Context, id actionid.ID, env map[string]string, limits spec.Limits) (*sandbox.Sandbox, error)
	Destroy(ctx context.Context, sb *sandbox.Sandbox) error
}

// Options configures an Executor.
type Options struct {
	// Store holds execution states. Defaults to an in-memory store.
	Store nodestore.Store
	// Sandboxes is required.
	Sandboxes Sandboxes
	// Drivers defaults to driver.Default().
	Drivers *driver.Registry
	// Workers bounds concurrency. Defaults to runtime.NumCPU().
	Workers int
	// RunTimeout bounds the whole run. Zero means none.
	RunTimeout time.Duration
}

// Executor runs one graph. It is not reusable across runs.
type Executor struct {
	g    *graph.Graph
	opts Options

	depCount []atomic.Int32
	// claimed marks actions that a worker picked up or that were skipped.
	// The claimer alone records the terminal state and counts the action
	// done, whatever the store reports.
	claimed []atomic.Bool
	results []ActionResult
	pending sync.WaitGroup
	ran     atomic.Bool
}

// New creates an executor for g.
func New(g *graph.Graph, opts Options) *Executor {
	if opts.Store == nil {
		opts.Store = inmemorystore.New()
	}
	if opts.Drivers == nil {
		opts.Drivers = driver.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Executor{g: g, opts: opts}
}

// Store returns the state table, for observers such as the status endpoint.
func (e *Executor) Store() nodestore.Store {
	return e.opts.Store
}

// Run executes the graph and returns once every action is terminal.
//
// Action failures are reported through the result, not the error. The error
// is non-nil when the run could not start, when the parent context ended
// (wrapping ErrCanceled), when the run timeout elapsed (wrapping
// osproc.ErrTimedOut) or when the state store failed mid-run (wrapping
// ErrStore); the result is returned in the last three cases.
func (e *Executor) Run(ctx context.Context) (*RunResult, error) {
	if !e.ran.CompareAndSwap(false, true) {
		return nil, errors.New("executor already ran")
	}
	if e.opts.Sandboxes == nil {
		return nil, errors.New("executor requires a sandbox provider")
	}
	if err := e.opts.Drivers.Validate(e.g.Kinds()); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	n := e.g.Len()

	if err := e.opts.Store.Init(ctx, e.g.IDs()); err != nil {
		return nil, fmt.Errorf("failed to initialize state store: %w", err)
	}
	e.depCount = make([]atomic.Int32, n)
	e.claimed = make([]atomic.Bool, n)
	e.results = make([]ActionResult, n)
	for i := 0; i < n; i++ {
		s := e.g.Spec(i)
		e.depCount[i].Store(int32(len(e.g.Dependencies(i))))
		e.results[i] = ActionResult{ID: s.ID(), Kind: s.Kind(), State: nodestore.StatusPending}
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if e.opts.RunTimeout > 0 {
		var stop context.CancelFunc
		runCtx, stop = context.WithTimeoutCause(runCtx, e.opts.RunTimeout, osproc.ErrTimedOut)
		defer stop()
	}

	logger.Info("🚀 Starting execution.", "actions", n, "workers", e.opts.Workers)

	readyChan := make(chan int, n)
	for _, i := range e.g.Roots() {
		if err := e.markReady(runCtx, i, readyChan); err != nil {
			return nil, fmt.Errorf("failed to schedule root actions: %w", err)
		}
	}
	e.pending.Add(n)

	// A worker returning an error cancels workCtx, which ends the run the
	// same way a parent cancellation does.
	workers, workCtx := errgroup.WithContext(runCtx)

	finished := make(chan struct{})
	go e.watch(workCtx, finished)

	for w := 0; w < e.opts.Workers; w++ {
		workerID := w
		workers.Go(func() error {
			return e.worker(workCtx, readyChan, workerID)
		})
	}

	e.pending.Wait()
	close(finished)
	close(readyChan)
	workerErr := workers.Wait()

	result := &RunResult{Actions: make([]ActionResult, 0, n), Elapsed: time.Since(start)}
	for _, i := range e.g.TopologicalOrder() {
		result.Actions = append(result.Actions, e.results[i])
	}

	var err error
	switch {
	case workerErr != nil:
		result.Cause = workerErr
		err = fmt.Errorf("run ended early: %w", workerErr)
	case runCtx.Err() != nil:
		result.Cause = e.cause(runCtx)
		err = fmt.Errorf("run ended early: %w", result.Cause)
	}
	logger.Info("All actions completed.",
		"succeeded", result.Count(nodestore.StatusSucceeded),
		"failed", result.Count(nodestore.StatusFailed),
		"skipped", result.Count(nodestore.StatusSkipped),
		"elapsed", result.Elapsed,
	)
	return result, err
}

// cause maps the end of the run context onto the run-wide error.
func (e *Executor) cause(runCtx context.Context) error {
	c := context.Cause(runCtx)
	switch {
	case errors.Is(c, osproc.ErrTimedOut):
		return osproc.ErrTimedOut
	case errors.Is(c, ErrStore):
		return c
	}
	return ErrCanceled
}

// storeFault wraps a state store failure for action id.
func storeFault(id actionid.ID, err error) error {
	return fmt.Errorf("%w: action %s: %w", ErrStore, id, err)
}

// markReady moves i to Ready and enqueues it.
func (e *Executor) markReady(ctx context.Context, i int, readyChan chan<- int) error {
	id := e.g.Spec(i).ID()
	ok, err := e.opts.Store.CompareAndSwap(ctx, id, nodestore.StatusPending, nodestore.StatusReady)
	if err != nil {
		return storeFault(id, err)
	}
	if ok {
		readyChan <- i
	}
	return nil
}

// claim makes the caller the only one allowed to settle i.
func (e *Executor) claim(i int) bool {
	return e.claimed[i].CompareAndSwap(false, true)
}

// skip moves an unclaimed action to Skipped. It reports whether this call
// performed the transition. A store failure is logged; the action still
// counts as skipped.
func (e *Executor) skip(ctx context.Context, i int, reason error) bool {
	if !e.claim(i) {
		return false
	}
	id := e.g.Spec(i).ID()
	logger := ctxlog.FromContext(ctx)
	if err := e.recordSkip(ctx, i); err != nil {
		logger.Error("Failed to record skipped action.", "action_id", id.String(), "error", err)
	} else {
		_ = e.opts.Store.SetError(ctx, id, reason)
	}
	e.results[i].State = nodestore.StatusSkipped
	e.results[i].Err = reason
	logger.Info("⏭️ Action skipped.", "action_id", id.String(), "reason", reason)
	e.pending.Done()
	return true
}

// recordSkip writes the Skipped transition of an unclaimed action, which is
// either Pending or Ready in the store.
func (e *Executor) recordSkip(ctx context.Context, i int) error {
	id := e.g.Spec(i).ID()
	for _, from := range []nodestore.Status{nodestore.StatusPending, nodestore.StatusReady} {
		ok, err := e.opts.Store.CompareAndSwap(ctx, id, from, nodestore.StatusSkipped)
		if err != nil {
			return storeFault(id, err)
		}
		if ok {
			return nil
		}
	}
	status, err := e.opts.Store.Status(ctx, id)
	if err != nil {
		return storeFault(id, err)
	}
	return storeFault(id, &nodestore.TransitionError{ID: id, From: status, To: nodestore.StatusSkipped})
}

// skipDependents recursively skips every unclaimed dependent of i.
func (e *Executor) skipDependents(ctx context.Context, i int) {
	id := e.g.Spec(i).ID()
	for _, d := range e.g.Dependents(i) {
		if e.skip(ctx, d, fmt.Errorf("%w: %s", ErrUpstream, id)) {
			e.skipDependents(ctx, d)
		}
	}
}

// watch skips every action that has not started once the run context ends.
func (e *Executor) watch(runCtx context.Context, finished <-chan struct{}) {
	select {
	case <-finished:
		return
	case <-runCtx.Done():
	}
	cause := e.cause(runCtx)
	ctxlog.FromContext(runCtx).Warn("Run ended early, skipping actions that have not started.", "cause", cause)
	for i := 0; i < e.g.Len(); i++ {
		e.skip(runCtx, i, cause)
	}
}
