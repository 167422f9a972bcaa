// Package transform provides read-mostly graph transformations used when
// laying out and drawing subsumption graphs.
//
// # Layer Assignment
//
// [AssignLevels] computes the longest-path level of every node with a
// topological traversal. Sources sit at level 0 and every node sits one level
// below its deepest predecessor. The graph is not modified; levels are
// returned to the caller together with the traversal order. A cyclic graph is
// reported with [dag.ErrGraphHasCycle] instead of producing partial levels.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes edges that are implied by longer paths. If
// A→B and B→C exist, then A→C is redundant and removed. For a strict subset
// relation the result is the Hasse diagram, which is much easier to read than
// the full containment graph.
//
// TransitiveReduction modifies its argument; reduce a freshly built copy
// when the full graph is still needed.
package transform
