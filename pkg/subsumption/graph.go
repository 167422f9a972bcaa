package subsumption

import (
	"errors"
	"fmt"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/killmap"
)

// ErrDuplicateLabel is returned by BuildGraph when two groups share a label,
// which means the groups do not partition the mutants.
var ErrDuplicateLabel = errors.New("duplicate group label")

// Node metadata keys set by BuildGraph.
const (
	MetaMutants = "mutants"  // []killmap.MutantID
	MetaKillSet = "kill_set" // killmap.KillSet
)

// BuildGraph builds the subsumption graph of groups.
//
// Each group becomes one node whose ID is the group label, inserted in group
// order. For every ordered pair of distinct groups (A, B) with
// killset(A) ⊊ killset(B) an edge A→B is added. Strict containment is a
// strict partial order, so the result is acyclic.
//
// The build compares all pairs and is quadratic in the number of groups;
// callers bound the group count before calling it. groups is not modified.
func BuildGraph(groups []Group) (*dag.DAG, error) {
	g := dag.New(nil)
	labels := make([]string, len(groups))

	for i, grp := range groups {
		labels[i] = grp.Label()
		err := g.AddNode(dag.Node{
			ID: labels[i],
			Meta: dag.Metadata{
				MetaMutants: grp.Mutants,
				MetaKillSet: grp.KillSet,
			},
		})
		if errors.Is(err, dag.ErrDuplicateNodeID) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, labels[i])
		}
		if err != nil {
			return nil, fmt.Errorf("add group %q: %w", labels[i], err)
		}
	}

	for i, a := range groups {
		for j, b := range groups {
			if i == j || a.KillSet.Len() >= b.KillSet.Len() {
				continue
			}
			if !a.KillSet.IsSubsetOf(b.KillSet) {
				continue
			}
			if err := g.AddEdge(dag.Edge{From: labels[i], To: labels[j]}); err != nil {
				return nil, fmt.Errorf("add edge %q -> %q: %w", labels[i], labels[j], err)
			}
		}
	}
	return g, nil
}

// NodeMutants returns the mutants of a graph node. Nodes built by BuildGraph
// carry them in metadata; for other nodes the label is split.
func NodeMutants(n *dag.Node) []killmap.MutantID {
	if ids, ok := n.Meta[MetaMutants].([]killmap.MutantID); ok {
		return ids
	}
	return killmap.SortMutantIDs(SplitLabel(n.ID))
}

// NodeKillSet returns the kill set stored on a node by BuildGraph.
func NodeKillSet(n *dag.Node) (killmap.KillSet, bool) {
	ks, ok := n.Meta[MetaKillSet].(killmap.KillSet)
	return ks, ok
}
