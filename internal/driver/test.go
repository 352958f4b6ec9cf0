package driver

import (
	"context"

	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Test runs every command and requires each to exit with expect_exit.
type Test struct{}

func (Test) Execute(ctx context.Context, s *spec.ActionSpec, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
	r, err := newRecipe(s, "commands", "expect_exit")
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	cmds, err := r.commands("commands", true)
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	expect := 0
	if err := r.decode("expect_exit", &expect, false); err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	if expect < 0 || expect > 255 {
		return osproc.ExitStatus{Code: -1}, r.errorf(nil, "expect_exit must be between 0 and 255, got %d", expect)
	}
	return runCommands(ctx, sb, cmds, nil, expect)
}
