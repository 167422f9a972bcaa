// Package dag provides a small directed graph with deterministic ordering,
// used to represent mutant subsumption graphs.
//
// # Overview
//
// A subsumption graph has one node per group of equivalent mutants and an
// edge A→B whenever the kill set of A is a strict subset of the kill set of
// B. Because strict set containment is a strict partial order, such graphs
// are acyclic by construction. This package stores the graph and answers the
// structural questions the analysis needs: parents, children, sources and a
// topological order.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique, non-empty IDs, and edges can only
// connect existing, distinct nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "3"})
//	g.AddNode(dag.Node{ID: "1, 2"})
//	g.AddEdge(dag.Edge{From: "3", To: "1, 2"})
//
// # Ordering
//
// Nodes and edges remember their insertion order. [DAG.Nodes],
// [DAG.Sources] and [DAG.TopologicalOrder] all follow it, so two graphs built
// by the same sequence of calls traverse identically. Layouts and exports
// depend on this.
//
// # Cycles
//
// AddEdge rejects self-loops but does not search for longer cycles. Graphs
// assembled by hand can therefore be cyclic; [DAG.TopologicalOrder] reports
// this with [ErrGraphHasCycle] rather than looping or returning a partial
// order.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata]
// maps. Metadata maps are never nil after creation - empty maps are
// automatically initialized.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines modify the same graph. Concurrent reads of a
// graph that is no longer modified are safe.
//
// # Related Packages
//
// The [transform] subpackage provides level assignment and transitive
// reduction.
//
// [transform]: github.com/matzehuels/mutdom/pkg/dag/transform
package dag
