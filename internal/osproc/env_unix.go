//go:build !windows

package osproc

func envKey(k string) string { return k }
