// Package app contains the core application logic. It wires spec loading,
// dependency resolution, sandboxes and the executor into one run, decoupled
// from any specific entrypoint like a CLI.
package app
