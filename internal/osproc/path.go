package osproc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// NormalizePath returns an absolute, cleaned form of path with symlinks
// resolved when the path exists. On Windows the \\?\ prefix is removed and
// the drive letter is upper-cased.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case err == nil:
		abs = resolved
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}
	return normalizeVolume(filepath.Clean(abs)), nil
}

// RemoveAll removes path and everything below it, clearing read-only bits
// that would make a plain os.RemoveAll fail. A missing path is not an error.
func RemoveAll(path string) error {
	if err := os.RemoveAll(path); err == nil {
		return nil
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		makeWritable(p, d)
		return nil
	})
	return os.RemoveAll(path)
}
