// Package osproc hides the operating-system differences the rest of the
// module must not care about: process-tree control, executable lookup,
// environment layering, path normalization and forced tree removal.
//
// # Process Trees
//
// A spawned command becomes the root of a tree that the package can always
// take down as a unit:
//
//   - POSIX: the child is started in its own process group (Setpgid), so a
//     signal sent to -pgid reaches every descendant that did not deliberately
//     leave the group.
//   - Windows: the child is started with CREATE_NEW_PROCESS_GROUP and
//     assigned to a job object configured with KILL_ON_JOB_CLOSE. Terminating
//     or closing the job ends every process in it.
//
// Termination is two-phase. Terminate(false) asks politely (SIGTERM to the
// group, CTRL_BREAK_EVENT on Windows); Terminate(true) kills the tree
// (SIGKILL to the group, TerminateJobObject). Run wires both phases together
// with a grace period.
//
// # Waiting
//
// Wait never blocks forever: it returns when the process exits, when its
// timeout elapses (ExitStatus.TimedOut) or when the context ends
// (ExitStatus.Canceled plus ctx.Err()). A timed-out or canceled process keeps
// running until the caller terminates it.
//
// # Environment
//
// Commands carry their full environment. The executable is looked up with
// the command's own PATH (and PATHEXT on Windows), never the parent's, so an
// action that overrides PATH gets the tools it asked for. Environment keys
// compare case-insensitively on Windows.
package osproc
