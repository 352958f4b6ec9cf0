package driver

import (
	"context"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Build runs the optional configure phase followed by the build phase.
type Build struct{}

func (Build) Execute(ctx context.Context, s *spec.ActionSpec, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
	r, err := newRecipe(s, "configure", "build")
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	configure, err := r.commands("configure", false)
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	build, err := r.commands("build", true)
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}

	logger := ctxlog.FromContext(ctx)
	if len(configure) > 0 {
		logger.Debug("Running configure phase.", "action_id", s.ID().String(), "commands", len(configure))
		st, err := runCommands(ctx, sb, configure, nil, 0)
		if err != nil || !st.Success() {
			return st, err
		}
	}
	logger.Debug("Running build phase.", "action_id", s.ID().String(), "commands", len(build))
	return runCommands(ctx, sb, build, nil, 0)
}
