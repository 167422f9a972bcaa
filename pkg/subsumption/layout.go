package subsumption

import (
	"errors"
	"fmt"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/dag/transform"
)

// ErrInvalidGraph is returned by ComputeLayout when the graph cannot be
// laid out, in particular when it contains a cycle. It wraps the underlying
// dag error.
var ErrInvalidGraph = errors.New("invalid graph")

// Position is the layout of a single node. Level 0 is the top row; Y is
// always -Level.
type Position struct {
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Layout assigns a Position to every node of a graph.
type Layout struct {
	Positions map[string]Position
	Levels    [][]string // node IDs per level, left to right
	MaxWidth  int        // largest number of nodes on one level
}

// Depth returns the number of levels.
func (l Layout) Depth() int { return len(l.Levels) }

// Position returns the position of the node with the given ID.
func (l Layout) Position(id string) (Position, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// ComputeLayout assigns levels and centered positions to every node of g.
//
// Nodes are visited in topological order (Kahn's algorithm, seeded in
// insertion order). A node without predecessors is at level 0; any other
// node is one level below its deepest predecessor. Within a level of n nodes
// the i-th node visited gets x = i - (n-1)/2, so every row is centered on
// zero, and y = -level. Isolated nodes are level 0 and share the top row.
//
// If g contains a cycle, ComputeLayout returns an error wrapping both
// ErrInvalidGraph and dag.ErrGraphHasCycle and no layout. g is not modified.
func ComputeLayout(g *dag.DAG) (Layout, error) {
	layout := Layout{Positions: map[string]Position{}}
	if g == nil {
		return layout, nil
	}

	order, levels, err := transform.AssignLevels(g)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}

	layout.Levels = transform.GroupByLevel(order, levels)
	for level, ids := range layout.Levels {
		n := len(ids)
		layout.MaxWidth = max(layout.MaxWidth, n)
		for i, id := range ids {
			layout.Positions[id] = Position{
				Level: level,
				X:     float64(i) - float64(n-1)/2,
				Y:     float64(-level),
			}
		}
	}
	return layout, nil
}
