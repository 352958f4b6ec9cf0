package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
	"github.com/specialistvlad/actiongrid/internal/osproc"
)

// worker is the processing loop of a single pool member. It returns an error
// only when the state store fails, which ends the run.
func (e *Executor) worker(ctx context.Context, readyChan chan int, workerID int) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "worker_id", workerID)

	for i := range readyChan {
		id := e.g.Spec(i).ID()
		workerLogger := logger.With("worker_id", workerID, "action_id", id.String())
		wctx := ctxlog.WithLogger(ctx, workerLogger)

		if ctx.Err() != nil {
			e.skip(wctx, i, e.cause(ctx))
			continue
		}
		if !e.claim(i) {
			workerLogger.Debug("Action no longer ready, dropping it.")
			continue
		}

		started := time.Now()
		res := &e.results[i]
		res.Started = started

		ok, err := e.opts.Store.CompareAndSwap(wctx, id, nodestore.StatusReady, nodestore.StatusRunning)
		if err == nil && !ok {
			err = errors.New("action is no longer ready")
		}
		if err != nil {
			err = storeFault(id, err)
			res.State, res.Err = nodestore.StatusFailed, err
			workerLogger.Error("Failed to start action.", "error", err)
			e.pending.Done()
			return err
		}
		workerLogger.Debug("Worker picked up action for execution.")

		status, stdout, stderr, runErr := e.execute(wctx, i)
		res.Status, res.Stdout, res.Stderr = status, stdout, stderr
		res.Elapsed = time.Since(started)

		if runErr == nil && status.Success() {
			storeErr := e.finish(wctx, i, nodestore.StatusSucceeded, nil)
			workerLogger.Info("✅ Action succeeded.", "elapsed", res.Elapsed)
			if storeErr == nil && ctx.Err() == nil {
				storeErr = e.unlockDependents(wctx, i, readyChan)
			}
			e.pending.Done()
			if storeErr != nil {
				return storeErr
			}
			continue
		}

		runErr = e.classify(ctx, status, runErr)
		storeErr := e.finish(wctx, i, nodestore.StatusFailed, runErr)
		workerLogger.Info("❌ Action failed.", "status", status.String(), "error", runErr, "elapsed", res.Elapsed)
		e.skipDependents(wctx, i)
		e.pending.Done()
		if storeErr != nil {
			return storeErr
		}
	}
	logger.Debug("Worker finished.", "worker_id", workerID)
	return nil
}

// unlockDependents enqueues every dependent of i whose last dependency just
// succeeded. Once the run has ended nothing is enqueued; the watcher skips
// what is left.
func (e *Executor) unlockDependents(ctx context.Context, i int, readyChan chan<- int) error {
	for _, d := range e.g.Dependents(i) {
		if e.depCount[d].Add(-1) != 0 {
			continue
		}
		ctxlog.FromContext(ctx).Debug("Unlocking dependent action.", "dependent_id", e.g.Spec(d).ID().String())
		if err := e.markReady(ctx, d, readyChan); err != nil {
			return err
		}
	}
	return nil
}

// finish moves a running action to a terminal state. The result is recorded
// even when the store fails; the store error is returned.
func (e *Executor) finish(ctx context.Context, i int, to nodestore.Status, err error) error {
	id := e.g.Spec(i).ID()
	e.results[i].State = to
	e.results[i].Err = err

	ok, casErr := e.opts.Store.CompareAndSwap(ctx, id, nodestore.StatusRunning, to)
	if casErr == nil && !ok {
		casErr = errors.New("action is no longer running")
	}
	if casErr != nil {
		casErr = storeFault(id, casErr)
		ctxlog.FromContext(ctx).Error("Failed to record action state.", "state", to.String(), "error", casErr)
		return casErr
	}
	if err != nil {
		_ = e.opts.Store.SetError(ctx, id, err)
	}
	return nil
}

// classify picks the error recorded for a failed action. An action cut short
// by the end of the run is attributed to the run, not to its own commands.
func (e *Executor) classify(runCtx context.Context, status osproc.ExitStatus, err error) error {
	if runCtx.Err() != nil {
		cause := e.cause(runCtx)
		if err == nil {
			return cause
		}
		return fmt.Errorf("%w: %v", cause, err)
	}
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnsuccessful, status)
	}
	return err
}

// execute runs action i in a fresh sandbox. The sandbox is destroyed even when
// the driver panics; the panic becomes the action's error.
func (e *Executor) execute(ctx context.Context, i int) (status osproc.ExitStatus, stdout, stderr string, err error) {
	logger := ctxlog.FromContext(ctx)
	s := e.g.Spec(i)
	status = osproc.ExitStatus{Code: -1}

	d, ok := e.opts.Drivers.Lookup(s.Kind())
	if !ok {
		return status, "", "", fmt.Errorf("no driver registered for kind '%s'", s.Kind())
	}

	sb, err := e.opts.Sandboxes.Create(ctx, s.ID(), s.Env(), s.Limits())
	if err != nil {
		return status, "", "", err
	}
	defer func() {
		stdout, stderr = sb.Stdout(), sb.Stderr()
		if destroyErr := e.opts.Sandboxes.Destroy(ctx, sb); destroyErr != nil {
			logger.Warn("Failed to destroy sandbox.", "error", destroyErr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Driver panicked.", "panic", r)
			status = osproc.ExitStatus{Code: -1}
			err = fmt.Errorf("driver panicked: %v", r)
		}
	}()

	status, err = d.Execute(ctx, s, sb)
	return status, "", "", err
}
