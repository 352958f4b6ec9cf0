// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It is suitable for any single-process
// run, where action state does not need to outlive the process.
package inmemorystore
