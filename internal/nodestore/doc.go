// Package nodestore defines the table of per-action execution states used
// while a graph runs.
//
// The store isolates mutable execution state from the immutable graph held by
// the graph package. The graph answers structural questions (who depends on
// whom) and is read without locks; the store answers "where is this action
// now" and is written concurrently by every worker.
//
// # State Transitions
//
// Every action starts Pending. The only mutation path is CompareAndSwap, which
// enforces this table:
//
//	Pending → Ready | Skipped
//	Ready   → Running | Skipped
//	Running → Succeeded | Failed
//
// Succeeded, Failed and Skipped are terminal. A worker that loses a CAS race
// (for example Ready → Running after a concurrent Ready → Skipped) simply
// observes swapped == false and drops the action, so no action is dispatched
// twice and none reaches two terminal states.
//
// # Lifecycle
//
// A store is created once per run, initialized with every action of the graph
// in Pending, mutated by the executor and discarded with the run. It is also
// read by the status endpoint through Snapshot.
package nodestore
