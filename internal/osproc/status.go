package osproc

import (
	"errors"
	"fmt"
)

// ErrTimedOut is returned by Run when the command outlived its timeout.
var ErrTimedOut = errors.New("process timed out")

// SpawnError reports that a command could not be started. No process exists
// when it is returned.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitStatus describes how a process ended.
type ExitStatus struct {
	// Code is the exit code, or -1 when the process did not exit normally.
	Code int
	// Signal names the terminating signal on POSIX, empty otherwise.
	Signal string
	// TimedOut is set when the wait timeout elapsed first.
	TimedOut bool
	// Canceled is set when the context ended first.
	Canceled bool
	// ExpectedCode is the exit code counted as success.
	ExpectedCode int
}

// Success reports whether the process exited on its own with ExpectedCode.
func (s ExitStatus) Success() bool {
	return !s.TimedOut && !s.Canceled && s.Signal == "" && s.Code == s.ExpectedCode
}

func (s ExitStatus) String() string {
	switch {
	case s.TimedOut:
		return "timed out"
	case s.Canceled:
		return "canceled"
	case s.Signal != "":
		return "signal " + s.Signal
	default:
		return fmt.Sprintf("exit %d", s.Code)
	}
}
