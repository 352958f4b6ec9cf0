package sandbox

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Sandbox is the isolated execution context of one action.
type Sandbox struct {
	id       actionid.ID
	root     string
	workDir  string
	tmpDir   string
	env      []string
	limits   spec.Limits
	deadline time.Time

	stdout *TailBuffer
	stderr *TailBuffer

	destroyOnce sync.Once
	destroyErr  error
}

func (s *Sandbox) ID() actionid.ID     { return s.id }
func (s *Sandbox) Root() string        { return s.root }
func (s *Sandbox) WorkDir() string     { return s.workDir }
func (s *Sandbox) TmpDir() string      { return s.tmpDir }
func (s *Sandbox) Limits() spec.Limits { return s.limits }

// Env returns a copy of the merged environment.
func (s *Sandbox) Env() []string { return slices.Clone(s.env) }

// Deadline returns the absolute deadline derived from Limits.Timeout.
func (s *Sandbox) Deadline() (time.Time, bool) {
	return s.deadline, !s.deadline.IsZero()
}

// Stdout returns the captured tail of standard output.
func (s *Sandbox) Stdout() string { return s.stdout.String() }

// Stderr returns the captured tail of standard error.
func (s *Sandbox) Stderr() string { return s.stderr.String() }

// Exec runs argv in the work directory with whatever time is left until the
// sandbox deadline. extraEnv is layered over the sandbox environment for this
// command only. Output is appended to the sandbox capture buffers.
func (s *Sandbox) Exec(ctx context.Context, argv []string, extraEnv map[string]string) (osproc.ExitStatus, error) {
	if len(argv) == 0 {
		return osproc.ExitStatus{Code: -1}, fmt.Errorf("empty command")
	}

	var timeout time.Duration
	if deadline, ok := s.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return osproc.ExitStatus{Code: -1, TimedOut: true}, osproc.ErrTimedOut
		}
	}

	env := s.env
	if len(extraEnv) > 0 {
		env = osproc.MergeEnv(osproc.EnvMap(s.env), extraEnv)
	}

	ctxlog.FromContext(ctx).Debug("Executing command.", "action_id", s.id.String(), "argv", argv)
	return osproc.Run(ctx, osproc.Command{
		Path:   argv[0],
		Args:   argv[1:],
		Env:    env,
		Dir:    s.workDir,
		Stdout: s.stdout,
		Stderr: s.stderr,
	}, timeout, s.limits.KillGrace)
}
