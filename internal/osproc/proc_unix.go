//go:build !windows

package osproc

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// procSys is the POSIX process-group handle. The group id equals the pid of
// the root because the child is started with Setpgid.
type procSys struct{}

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func attach(cmd *exec.Cmd) (*procSys, error) {
	return &procSys{}, nil
}

func (s *procSys) terminate(pid int, escalate bool) error {
	sig := unix.SIGTERM
	if escalate {
		sig = unix.SIGKILL
	}
	if err := unix.Kill(-pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

// close kills stragglers that outlived the root. A pgid cannot be reused
// while the group has members, so only a group that still answers signal 0
// is killed. An emptied group may already name an unrelated process.
func (s *procSys) close(pid int) error {
	if err := unix.Kill(-pid, 0); errors.Is(err, unix.ESRCH) {
		return nil
	}
	return s.terminate(pid, true)
}

func signalName(state *os.ProcessState) string {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return unix.SignalName(ws.Signal())
}
