package transform

import "github.com/matzehuels/mutdom/pkg/dag"

// AssignLevels computes a level for every node based on its depth in the
// graph.
//
// AssignLevels uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Each node is placed at one plus the maximum level of any of its
// parents, ensuring that:
//   - Source nodes (no incoming edges) are at level 0
//   - Every edge u→v satisfies level(v) > level(u)
//   - Isolated nodes are sources and therefore at level 0
//
// The returned order is the traversal order: sources in insertion order,
// then nodes in the order their last parent was processed. Callers that group
// nodes by level should keep this order within each level for stable output.
//
// # Cycles
//
// If the graph has a cycle, the nodes on it never reach in-degree zero.
// AssignLevels then returns dag.ErrGraphHasCycle and nil results; it never
// returns levels for a subset of the nodes.
//
// # Performance
//
// Time complexity is O(V + E). The graph is not modified.
func AssignLevels(g *dag.DAG) (order []string, levels map[string]int, err error) {
	order, err = g.TopologicalOrder()
	if err != nil {
		return nil, nil, err
	}

	levels = make(map[string]int, len(order))
	for _, id := range order {
		level := 0
		for _, parent := range g.Parents(id) {
			if l := levels[parent] + 1; l > level {
				level = l
			}
		}
		levels[id] = level
	}
	return order, levels, nil
}

// GroupByLevel buckets an ordered list of node IDs by level, keeping the
// relative order of the input inside each bucket. The result has one entry
// per level from 0 to the maximum level.
func GroupByLevel(order []string, levels map[string]int) [][]string {
	depth := 0
	for _, id := range order {
		if levels[id]+1 > depth {
			depth = levels[id] + 1
		}
	}
	rows := make([][]string, depth)
	for _, id := range order {
		l := levels[id]
		rows[l] = append(rows[l], id)
	}
	return rows
}
