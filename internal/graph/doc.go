// Package graph holds the resolved, immutable dependency graph of one run.
//
// # Why an Arena
//
// Nodes are stored in a slice and addressed by dense integer index. Adjacency
// is kept as sorted index lists in both directions (dependencies and
// dependents). Nothing in the graph points at anything else, so there are no
// ownership cycles. Any number of workers can read it concurrently without
// locking.
//
//	index:        0          1         2
//	spec:      compile     gen       link
//	deps:        [1]        []       [0 1]
//	dependents:  [2]      [0 2]       []
//
// # Lifecycle
//
//  1. Created by the resolver through Builder once all validation passed.
//  2. Read by the executor: Roots, Dependencies, Dependents, Spec.
//  3. Discarded with the run.
//
// A Graph never changes after Builder.Build returns. Mutable execution state
// lives in a nodestore.Store keyed by the same action keys.
package graph
