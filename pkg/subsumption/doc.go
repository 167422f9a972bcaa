// Package subsumption computes dominator mutants from a kill map.
//
// # Overview
//
// Mutation testing produces, for every mutant, the set of tests that killed
// it. A mutant A subsumes a mutant B when every test that kills A also kills
// B and B is killed by more tests. Killing A is then enough to kill B, so B
// adds no information. The mutants that no other mutant subsumes are the
// dominators: a test suite that kills all dominators kills every killable
// mutant.
//
// The analysis runs in four pure stages, each producing fresh values:
//
//  1. [GroupByKillSet] merges mutants with identical kill sets into a [Group]
//  2. [BuildGraph] creates one node per group and an edge A→B whenever the
//     kill set of A is a strict subset of the kill set of B
//  3. [Dominators] returns the mutants of all nodes without incoming edges
//  4. [ComputeLayout] assigns each node a level and a centered (x, y) position
//
// [Analyze] runs all stages and bundles the results into an [Analysis].
//
// # Labels
//
// A node's ID is its label: the group's mutant IDs in numeric order joined by
// ", ". Labels are unique because groups partition the mutants. [SplitLabel]
// reverses the join.
//
// # Determinism
//
// Groups are ordered by their smallest mutant ID, nodes are inserted in group
// order and the layout traverses nodes in insertion order. Running the
// analysis twice on the same kill map yields identical groups, edges,
// dominators and positions.
//
// # Concurrency
//
// All functions are reentrant. Nothing in this package holds mutable state
// between calls, and no stage modifies the output of an earlier stage.
package subsumption
