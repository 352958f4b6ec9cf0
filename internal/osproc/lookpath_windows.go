//go:build windows

package osproc

import (
	"os"
	"path/filepath"
	"strings"
)

var defaultPathExt = []string{".com", ".exe", ".bat", ".cmd"}

// pathExt returns the executable extensions from the command's PATHEXT.
func pathExt(env []string) []string {
	raw := EnvMap(env)[envKey("PATHEXT")]
	if raw == "" {
		return defaultPathExt
	}
	var exts []string
	for _, e := range strings.Split(strings.ToLower(raw), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func findExecutable(path string, env []string) (string, bool) {
	exts := pathExt(env)
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		for _, e := range exts {
			if e == ext && isFile(path) {
				return path, true
			}
		}
	}
	for _, e := range exts {
		if isFile(path + e) {
			return path + e, true
		}
	}
	return "", false
}
