//go:build !windows

package osproc

import (
	"io/fs"
	"os"
)

func normalizeVolume(path string) string { return path }

func makeWritable(path string, d fs.DirEntry) {
	info, err := d.Info()
	if err != nil {
		return
	}
	mode := info.Mode().Perm() | 0o200
	if d.IsDir() {
		mode |= 0o700
	}
	_ = os.Chmod(path, mode)
}
