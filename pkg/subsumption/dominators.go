package subsumption

import (
	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/killmap"
)

// Dominators returns the dominator mutants of g: the mutants of every node
// with no incoming edge, flattened and sorted numerically.
//
// Labels are split with SplitLabel rather than read from metadata, so
// hand-built graphs work as long as their labels follow the ", " convention.
// A nil or empty graph yields an empty, non-nil slice.
func Dominators(g *dag.DAG) []killmap.MutantID {
	out := []killmap.MutantID{}
	if g == nil {
		return out
	}
	for _, n := range g.Sources() {
		out = append(out, SplitLabel(n.ID)...)
	}
	return killmap.SortMutantIDs(out)
}

// IsDominator reports whether the node with the given ID has no incoming
// edges.
func IsDominator(g *dag.DAG, id string) bool {
	_, ok := g.Node(id)
	return ok && g.InDegree(id) == 0
}
