package sandbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/osproc"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// DefaultKillGrace is used for actions that do not set Limits.KillGrace.
const DefaultKillGrace = 5 * time.Second

const maxSlugLen = 40

// Options configures a Manager.
type Options struct {
	// Root is the directory sandboxes are created in. It is created if missing.
	Root string
	// Salt makes directory names unique per run. Empty means a fresh UUID.
	Salt string
	// Inherited is the process environment captured at run start.
	Inherited []string
	// RunEnv overrides Inherited for every action of the run.
	RunEnv map[string]string
	// KeepOnExit leaves sandbox directories in place on Destroy.
	KeepOnExit bool
	// OutputLimit is the number of trailing bytes kept per stream.
	OutputLimit int
	// KillGrace is the default grace period before a tree is killed.
	KillGrace time.Duration
}

// Manager creates and destroys sandboxes under one root.
type Manager struct {
	opts      Options
	root      string
	inherited map[string]string
	active    atomic.Int64
}

// NewManager validates opts and prepares the sandbox root.
func NewManager(opts Options) (*Manager, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("sandbox root must not be empty")
	}
	if err := os.MkdirAll(opts.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox root: %w", err)
	}
	root, err := osproc.NormalizePath(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize sandbox root: %w", err)
	}
	if opts.Salt == "" {
		opts.Salt = uuid.NewString()
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = DefaultKillGrace
	}
	return &Manager{
		opts:      opts,
		root:      root,
		inherited: osproc.EnvMap(opts.Inherited),
	}, nil
}

// Root returns the normalized sandbox root.
func (m *Manager) Root() string {
	return m.root
}

// Active returns the number of created but not yet destroyed sandboxes.
func (m *Manager) Active() int {
	return int(m.active.Load())
}

// Dir returns the directory Create uses for id.
func (m *Manager) Dir(id actionid.ID) string {
	sum := sha256.Sum256([]byte(m.opts.Salt + "\x00" + id.Key()))
	return filepath.Join(m.root, slug(id.Name)+"-"+hex.EncodeToString(sum[:])[:12])
}

// Create makes a fresh sandbox for id. It fails if the directory exists or
// ctx has already ended.
func (m *Manager) Create(ctx context.Context, id actionid.ID, actionEnv map[string]string, limits spec.Limits) (*Sandbox, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to create sandbox for %s: %w", id, err)
	}
	dir := m.Dir(id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox for %s: %w", id, err)
	}

	sb := &Sandbox{
		id:      id,
		root:    dir,
		workDir: filepath.Join(dir, "work"),
		tmpDir:  filepath.Join(dir, "tmp"),
		limits:  limits,
		stdout:  NewTailBuffer(m.opts.OutputLimit),
		stderr:  NewTailBuffer(m.opts.OutputLimit),
	}
	for _, d := range []string{sb.workDir, sb.tmpDir} {
		if err := os.Mkdir(d, 0o755); err != nil {
			_ = osproc.RemoveAll(dir)
			return nil, fmt.Errorf("failed to create sandbox for %s: %w", id, err)
		}
	}
	if limits.KillGrace <= 0 {
		sb.limits.KillGrace = m.opts.KillGrace
	}
	if limits.Timeout > 0 {
		sb.deadline = time.Now().Add(limits.Timeout)
	}

	sandboxVars := map[string]string{
		"TMPDIR":             sb.tmpDir,
		"TMP":                sb.tmpDir,
		"TEMP":               sb.tmpDir,
		"ACTIONGRID_ACTION":  id.String(),
		"ACTIONGRID_SANDBOX": dir,
	}
	sb.env = osproc.MergeEnv(m.inherited, m.opts.RunEnv, sandboxVars, actionEnv)

	m.active.Add(1)
	ctxlog.FromContext(ctx).Debug("Created sandbox.", "action_id", id.String(), "dir", dir)
	return sb, nil
}

// Destroy removes sb unless KeepOnExit is set. Only the first call acts;
// later calls return the first result.
func (m *Manager) Destroy(ctx context.Context, sb *Sandbox) error {
	sb.destroyOnce.Do(func() {
		defer m.active.Add(-1)
		logger := ctxlog.FromContext(ctx)
		if m.opts.KeepOnExit {
			logger.Debug("Keeping sandbox.", "action_id", sb.id.String(), "dir", sb.root)
			return
		}
		if err := osproc.RemoveAll(sb.root); err != nil {
			sb.destroyErr = fmt.Errorf("failed to remove sandbox %s: %w", sb.root, err)
			return
		}
		logger.Debug("Destroyed sandbox.", "action_id", sb.id.String())
	})
	return sb.destroyErr
}

// slug renders name with filesystem-safe characters only.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	s = strings.Trim(s, ".")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	if s == "" {
		s = "action"
	}
	return s
}
