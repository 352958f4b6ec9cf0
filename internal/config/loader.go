package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/fsutil"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Loader is the interface for a format-specific spec loader.
type Loader interface {
	// Load reads the given files and returns every action they declare.
	Load(ctx context.Context, paths ...string) ([]*spec.ActionSpec, error)
}

// MultiLoader dispatches files to loaders by extension.
type MultiLoader struct {
	loaders map[string]Loader
}

// NewMultiLoader returns a MultiLoader with no formats registered.
func NewMultiLoader() *MultiLoader {
	return &MultiLoader{loaders: make(map[string]Loader)}
}

// Register binds l to ext (e.g. ".hcl"). Registering an extension twice is a
// programming error.
func (m *MultiLoader) Register(ext string, l Loader) {
	ext = strings.ToLower(ext)
	if _, exists := m.loaders[ext]; exists {
		panic(fmt.Sprintf("loader for extension '%s' already registered", ext))
	}
	m.loaders[ext] = l
}

// Extensions returns the registered extensions, sorted.
func (m *MultiLoader) Extensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Load expands paths (files or directories) and loads each file with the
// loader for its extension. Specs are returned in file order.
func (m *MultiLoader) Load(ctx context.Context, paths ...string) ([]*spec.ActionSpec, error) {
	logger := ctxlog.FromContext(ctx)
	if len(m.loaders) == 0 {
		return nil, fmt.Errorf("no spec loaders registered")
	}

	files, err := fsutil.CollectFiles(paths, m.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered spec files.", "count", len(files))

	var specs []*spec.ActionSpec
	for _, file := range files {
		l := m.loaders[strings.ToLower(filepath.Ext(file))]
		loaded, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		specs = append(specs, loaded...)
	}
	logger.Debug("Spec loading complete.", "files", len(files), "actions", len(specs))
	return specs, nil
}
