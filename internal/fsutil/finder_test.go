package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.hcl", "a.yaml", "nested/c.YML", "nested/deep/d.hcl", "readme.md")

	files, err := FindFiles(root, ".hcl", ".yaml", ".yml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.YML"),
		filepath.Join(root, "nested", "deep", "d.hcl"),
	}, files)

	assert.Panics(t, func() { FindFiles(root) })
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/one.hcl", "x/two.hcl", "three.yaml", "notes.txt")

	files, err := CollectFiles([]string{
		filepath.Join(root, "x"),
		filepath.Join(root, "x", "one.hcl"),
		filepath.Join(root, "three.yaml"),
	}, ".hcl", ".yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "x", "one.hcl"),
		filepath.Join(root, "x", "two.hcl"),
		filepath.Join(root, "three.yaml"),
	}, files)

	_, err = CollectFiles([]string{filepath.Join(root, "missing")}, ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = CollectFiles([]string{filepath.Join(root, "notes.txt")}, ".hcl")
	assert.ErrorContains(t, err, "unsupported file type")
}
