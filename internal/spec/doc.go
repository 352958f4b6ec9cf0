// Package spec defines the validated in-memory shape of an action: its
// identity, declared dependencies, driver kind, recipe payload, environment
// overlay and limits.
//
// Loaders (see internal/hcl and internal/yamlspec) turn declarative sources
// into Params and call New. Every structural check happens there, so a
// malformed spec is rejected at load time and never surfaces during
// resolution or execution. An ActionSpec is read-only once built.
package spec
