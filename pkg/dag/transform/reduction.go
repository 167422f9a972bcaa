package transform

import "github.com/matzehuels/mutdom/pkg/dag"

// TransitiveReduction removes redundant edges from the graph.
//
// TransitiveReduction removes any edge (u, v) where there exists an alternate
// path from u to v through at least one intermediate node. For example, if
// edges A→B, B→C, and A→C all exist, then A→C is redundant and is removed
// because A reaches C via B.
//
// Reduction never changes which nodes are sources, so dominators computed on
// the reduced graph equal those of the original. Levels are also preserved:
// the longest path to every node survives the reduction.
//
// # Algorithm
//
// TransitiveReduction computes full transitive closure using DFS-based
// reachability, then removes any edge (u, v) where u can reach v through an
// intermediate node w (where u→w and w reaches v).
//
// # Nil Handling
//
// TransitiveReduction panics if g is nil. If g is empty (zero nodes), the
// function returns immediately and reports zero removed edges.
//
// # Performance
//
// Time complexity is O(V²·E) in the worst case. Space complexity is O(V²) for
// the reachability matrix.
//
// TransitiveReduction returns the number of removed edges. Edge metadata of
// the remaining edges is preserved.
func TransitiveReduction(g *dag.DAG) int {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return 0
	}

	nodeIndex := dag.PosMap(ids)
	adjacency := make([][]int, len(ids))
	for _, e := range g.Edges() {
		if src, ok := nodeIndex[e.From]; ok {
			if dst, ok := nodeIndex[e.To]; ok {
				adjacency[src] = append(adjacency[src], dst)
			}
		}
	}

	reachability := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := nodeIndex[e.From], nodeIndex[e.To]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachability[intermediate][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
