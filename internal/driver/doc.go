// Package driver interprets action recipes.
//
// Every spec.Kind maps to exactly one Driver in a Registry. The executor
// looks the driver up by the action's kind and hands it the spec and a ready
// sandbox; the driver decodes the recipe and runs its commands through
// Sandbox.Exec.
//
// The built-in drivers form a closed set:
//
//	build    configure = [[argv...], ...] (optional), build = [[argv...], ...]
//	test     commands = [[argv...], ...], expect_exit = <number> (default 0)
//	install  commands = [[argv...], ...], destdir = "<dir>", prefix = "<dir>"
//
// Commands run sequentially and stop at the first unsuccessful status. A
// recipe that cannot be decoded fails with *DriverError before any command
// runs.
package driver
