package osproc

import (
	"sort"
	"strings"
)

// EnvMap parses KEY=VALUE entries. On Windows keys are folded to upper case.
// Entries without '=' are dropped; Windows drive entries such as "=C:=C:\"
// keep their leading '='.
func EnvMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if kv == "" {
			continue
		}
		i := strings.IndexByte(kv[1:], '=')
		if i < 0 {
			continue
		}
		i++
		m[envKey(kv[:i])] = kv[i+1:]
	}
	return m
}

// MergeEnv layers environments; later layers override earlier ones. The
// result is sorted by key.
func MergeEnv(layers ...map[string]string) []string {
	type entry struct{ key, value string }
	merged := make(map[string]entry)
	for _, layer := range layers {
		for k, v := range layer {
			merged[envKey(k)] = entry{key: k, value: v}
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		e := merged[k]
		out[i] = e.key + "=" + e.value
	}
	return out
}
