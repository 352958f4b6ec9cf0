package osproc

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
)

// waitDelay bounds how long Wait keeps draining output pipes after the
// direct child exited, in case a descendant still holds them open.
const waitDelay = 2 * time.Second

// Command describes one process to start.
type Command struct {
	// Path is the program. Without a path separator it is looked up in the
	// PATH of Env.
	Path string
	// Args are the arguments after the program name.
	Args []string
	// Env is the complete environment. A nil Env means the parent's.
	Env []string
	// Dir is the working directory.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a started command together with its process tree.
type Process struct {
	cmd  *exec.Cmd
	sys  *procSys
	done chan struct{}

	waitErr   error
	closeOnce sync.Once
	closeErr  error
}

// Spawn resolves and starts c. On failure it returns a *SpawnError and no
// process is left behind.
func Spawn(ctx context.Context, c Command) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SpawnError{Path: c.Path, Err: err}
	}

	env := c.Env
	if env == nil {
		env = os.Environ()
	}

	path, err := lookPath(c.Path, env, c.Dir)
	if err != nil {
		return nil, &SpawnError{Path: c.Path, Err: err}
	}

	cmd := &exec.Cmd{
		Path:        path,
		Args:        append([]string{c.Path}, c.Args...),
		Env:         env,
		Dir:         c.Dir,
		Stdout:      c.Stdout,
		Stderr:      c.Stderr,
		SysProcAttr: sysProcAttr(),
		WaitDelay:   waitDelay,
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: c.Path, Err: err}
	}

	sys, err := attach(cmd)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, &SpawnError{Path: c.Path, Err: err}
	}

	p := &Process{cmd: cmd, sys: sys, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	ctxlog.FromContext(ctx).Debug("Spawned process.", "pid", cmd.Process.Pid, "path", path, "dir", c.Dir)
	return p, nil
}

// Pid returns the OS process id of the tree root.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed once the root process has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the process exits, timeout elapses (timeout <= 0 means
// none) or ctx ends, whichever comes first.
func (p *Process) Wait(ctx context.Context, timeout time.Duration) (ExitStatus, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-p.done:
		return p.exitStatus()
	case <-expired:
		return ExitStatus{Code: -1, TimedOut: true}, nil
	case <-ctx.Done():
		return ExitStatus{Code: -1, Canceled: true}, ctx.Err()
	}
}

// Terminate signals the whole tree. escalate=false requests a graceful stop,
// escalate=true kills every process in the tree.
func (p *Process) Terminate(escalate bool) error {
	select {
	case <-p.done:
		if !escalate {
			return nil
		}
	default:
	}
	return p.sys.terminate(p.cmd.Process.Pid, escalate)
}

// Close kills any process left in the tree and releases OS handles. It is
// safe to call more than once.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.sys.close(p.cmd.Process.Pid)
	})
	return p.closeErr
}

func (p *Process) exitStatus() (ExitStatus, error) {
	state := p.cmd.ProcessState
	if state == nil {
		return ExitStatus{Code: -1}, p.waitErr
	}
	st := ExitStatus{Code: state.ExitCode(), Signal: signalName(state)}

	var exitErr *exec.ExitError
	if p.waitErr != nil && !errors.As(p.waitErr, &exitErr) && !errors.Is(p.waitErr, exec.ErrWaitDelay) {
		return st, p.waitErr
	}
	return st, nil
}

// Run spawns c and waits for it. When the timeout elapses or ctx ends the tree
// is asked to stop, then killed after grace. The process is always released.
// A timeout is reported as ErrTimedOut, a cancellation as ctx.Err().
func Run(ctx context.Context, c Command, timeout, grace time.Duration) (ExitStatus, error) {
	logger := ctxlog.FromContext(ctx)

	p, err := Spawn(ctx, c)
	if err != nil {
		return ExitStatus{Code: -1}, err
	}
	defer p.Close()

	st, err := p.Wait(ctx, timeout)
	if !st.TimedOut && !st.Canceled {
		return st, err
	}

	logger.Debug("Terminating process tree.", "pid", p.Pid(), "timed_out", st.TimedOut, "grace", grace)
	if grace > 0 {
		if termErr := p.Terminate(false); termErr != nil {
			logger.Debug("Graceful termination failed.", "pid", p.Pid(), "error", termErr)
		}
		t := time.NewTimer(grace)
		select {
		case <-p.done:
		case <-t.C:
		}
		t.Stop()
	}
	if termErr := p.Terminate(true); termErr != nil {
		logger.Warn("Failed to kill process tree.", "pid", p.Pid(), "error", termErr)
	}
	<-p.done

	final, _ := p.exitStatus()
	final.TimedOut, final.Canceled = st.TimedOut, st.Canceled
	if st.TimedOut {
		return final, ErrTimedOut
	}
	return final, err
}
