package subsumption

import (
	"fmt"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/killmap"
)

// Analysis bundles the outputs of every stage for one kill map.
type Analysis struct {
	Groups     []Group
	Graph      *dag.DAG
	Dominators []killmap.MutantID
	Layout     Layout
	Stats      Stats
}

// Stats summarizes an analysis.
type Stats struct {
	Mutants        int     `json:"mutants"`
	Tests          int     `json:"tests"`
	Groups         int     `json:"groups"`
	Edges          int     `json:"edges"`
	Levels         int     `json:"levels"`
	Dominators     int     `json:"dominators"`
	DominatorNodes int     `json:"dominator_nodes"`
	Redundancy     float64 `json:"redundancy"` // share of mutants that are not dominators
}

// Analyze groups km, builds the subsumption graph and computes dominators
// and layout. An empty kill map is valid and produces empty results.
func Analyze(km killmap.KillMap) (*Analysis, error) {
	groups := GroupByKillSet(km)

	g, err := BuildGraph(groups)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return analyze(groups, g, km.Len(), len(km.Tests()))
}

// AnalyzeGraph computes dominators and layout for a graph that was built
// elsewhere, typically one read back from JSON. Groups are recovered from
// node metadata; a node without a kill set gets an empty one. The edges of g
// are taken as given.
func AnalyzeGraph(g *dag.DAG) (*Analysis, error) {
	groups := make([]Group, 0, g.NodeCount())
	mutants := 0
	tests := make(map[killmap.TestID]struct{})
	for _, n := range g.Nodes() {
		ks, _ := NodeKillSet(n)
		grp := Group{KillSet: ks, Mutants: NodeMutants(n)}
		groups = append(groups, grp)
		mutants += len(grp.Mutants)
		for _, t := range ks.Tests() {
			tests[t] = struct{}{}
		}
	}
	return analyze(groups, g, mutants, len(tests))
}

func analyze(groups []Group, g *dag.DAG, mutants, tests int) (*Analysis, error) {
	layout, err := ComputeLayout(g)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}

	a := &Analysis{
		Groups:     groups,
		Graph:      g,
		Dominators: Dominators(g),
		Layout:     layout,
	}
	a.Stats = Stats{
		Mutants:        mutants,
		Tests:          tests,
		Groups:         len(groups),
		Edges:          g.EdgeCount(),
		Levels:         layout.Depth(),
		Dominators:     len(a.Dominators),
		DominatorNodes: len(g.Sources()),
	}
	if mutants > 0 {
		a.Stats.Redundancy = 1 - float64(len(a.Dominators))/float64(mutants)
	}
	return a, nil
}

// Group returns the group whose label is id.
func (a *Analysis) Group(id string) (Group, bool) {
	for _, g := range a.Groups {
		if g.Label() == id {
			return g, true
		}
	}
	return Group{}, false
}
