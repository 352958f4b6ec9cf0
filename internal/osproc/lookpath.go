package osproc

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// lookPath resolves file against the PATH found in env. Names containing a
// separator are taken relative to dir. exec.LookPath cannot be used here:
// it consults the parent's PATH, not the one the command will run with.
func lookPath(file string, env []string, dir string) (string, error) {
	if file == "" {
		return "", exec.ErrNotFound
	}

	if strings.ContainsRune(file, '/') || strings.ContainsRune(file, filepath.Separator) {
		path := file
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		if found, ok := findExecutable(path, env); ok {
			return found, nil
		}
		return "", exec.ErrNotFound
	}

	for _, d := range filepath.SplitList(EnvMap(env)[envKey("PATH")]) {
		if d == "" {
			d = "."
		}
		if !filepath.IsAbs(d) && dir != "" {
			d = filepath.Join(dir, d)
		}
		if found, ok := findExecutable(filepath.Join(d, file), env); ok {
			return found, nil
		}
	}
	return "", exec.ErrNotFound
}
