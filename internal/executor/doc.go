// Package executor runs a resolved graph.Graph on a bounded worker pool.
//
// # Scheduling
//
// Every action keeps an atomic counter of unmet dependencies. Roots start
// Ready and are pushed onto a buffered ready channel shared by all workers.
// When an action succeeds, each dependent's counter is decremented; the
// worker that brings a counter to zero moves that dependent Pending → Ready
// and enqueues it. The channel holds one slot per action and every action is
// enqueued at most once, so sends never block.
//
// # State Table
//
// All transitions go through nodestore.Store.CompareAndSwap. A worker must win
// Ready → Running before it runs an action; losing that race means the action
// was skipped in the meantime and the worker drops it. Exactly one goroutine
// wins the transition into each terminal state and it alone writes the
// action's result.
//
// # Failure Model
//
// A failed or skipped action skips every Pending dependent, transitively and
// immediately. Independent branches keep running. When the run context ends
// (cancellation or the run timeout) a watcher skips every Pending and Ready
// action; running actions see the same context through their driver and
// sandbox, are terminated, and end Failed with ErrCanceled or
// osproc.ErrTimedOut.
//
// Every sandbox that was created is destroyed exactly once, including when a
// driver panics.
package executor
