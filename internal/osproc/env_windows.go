//go:build windows

package osproc

import "strings"

func envKey(k string) string { return strings.ToUpper(k) }
