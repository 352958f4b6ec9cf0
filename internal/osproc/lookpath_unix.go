//go:build !windows

package osproc

import "os"

func findExecutable(path string, env []string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() || fi.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	return path, true
}
