package driver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/sandbox"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Install runs commands with DESTDIR (and PREFIX, when given) exported.
// destdir defaults to <sandbox>/install; a relative destdir is taken from the
// work directory.
type Install struct{}

func (Install) Execute(ctx context.Context, s *spec.ActionSpec, sb *sandbox.Sandbox) (osproc.ExitStatus, error) {
	r, err := newRecipe(s, "commands", "destdir", "prefix")
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	cmds, err := r.commands("commands", true)
	if err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	var destdir, prefix string
	if err := r.decode("destdir", &destdir, false); err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}
	if err := r.decode("prefix", &prefix, false); err != nil {
		return osproc.ExitStatus{Code: -1}, err
	}

	switch {
	case destdir == "":
		destdir = filepath.Join(sb.Root(), "install")
	case !filepath.IsAbs(destdir):
		destdir = filepath.Join(sb.WorkDir(), destdir)
	}
	if err := os.MkdirAll(destdir, 0o755); err != nil {
		return osproc.ExitStatus{Code: -1}, r.errorf(err, "cannot create destdir")
	}

	env := map[string]string{"DESTDIR": destdir}
	if prefix != "" {
		env["PREFIX"] = prefix
	}
	ctxlog.FromContext(ctx).Debug("Installing.", "action_id", s.ID().String(), "destdir", destdir)
	return runCommands(ctx, sb, cmds, env, 0)
}
