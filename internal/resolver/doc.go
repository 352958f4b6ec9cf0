// Package resolver turns a set of requested action IDs and a catalog of
// action specs into an immutable, acyclic graph.Graph.
//
// Resolution is a depth-first closure from the requested IDs. Every
// reference, whether requested or declared in a spec's depends_on, goes
// through the same matching rule:
//
//  1. a spec whose ID equals the reference exactly wins;
//  2. otherwise the candidates are the specs with the same name whose
//     qualifiers contain every qualifier of the reference;
//  3. zero candidates is an *UnresolvedDependencyError, more than one is an
//     *AmbiguousDependencyError.
//
// Each node carries a visit state (unvisited, in progress, done). Reaching an
// in-progress node again closes a cycle, reported as a *CycleError with the
// full path. Resolution is pure: it touches no sandbox and spawns no process.
package resolver
