// Package sandbox creates and destroys the isolated directories actions run
// in.
//
// A Manager owns one run's sandbox root. Each Create call makes a fresh
// directory named after the action plus a salted hash of its identity, so
// two qualifier variants of the same action never share a directory and a
// second run never reuses the first run's leftovers:
//
//	<root>/<slug>-<sha256(salt "\x00" key)[:12]>/
//	    work/   working directory of every command
//	    tmp/    exported as TMPDIR, TMP and TEMP
//
// Commands see a layered environment, strongest first: the action's own env,
// the sandbox variables (TMPDIR, TMP, TEMP, ACTIONGRID_ACTION,
// ACTIONGRID_SANDBOX), the run-scoped overrides and finally the environment
// the process was started with.
//
// A sandbox is owned by a single worker. Destroy is idempotent and removes
// the tree even when the action left read-only files behind.
package sandbox
