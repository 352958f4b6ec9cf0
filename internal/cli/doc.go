// Package cli turns command-line arguments into an app.Config, renders the
// run summary and maps run outcomes onto process exit codes.
package cli
