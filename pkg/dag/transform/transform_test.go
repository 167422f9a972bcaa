package transform

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/mutdom/pkg/dag"
)

func buildGraph(t *testing.T, nodes []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range nodes {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAssignLevels(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []string
		edges  [][2]string
		levels map[string]int
	}{
		{
			name:   "empty",
			levels: map[string]int{},
		},
		{
			name:   "isolated",
			nodes:  []string{"a", "b"},
			levels: map[string]int{"a": 0, "b": 0},
		},
		{
			name:   "chain",
			nodes:  []string{"a", "b", "c"},
			edges:  [][2]string{{"a", "b"}, {"b", "c"}},
			levels: map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:   "longest path wins",
			nodes:  []string{"a", "b", "c"},
			edges:  [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}},
			levels: map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:   "diamond",
			nodes:  []string{"top", "l", "r", "bottom"},
			edges:  [][2]string{{"top", "l"}, {"top", "r"}, {"l", "bottom"}, {"r", "bottom"}},
			levels: map[string]int{"top": 0, "l": 1, "r": 1, "bottom": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			order, levels, err := AssignLevels(g)
			if err != nil {
				t.Fatalf("AssignLevels() error: %v", err)
			}
			if len(order) != len(tt.nodes) {
				t.Errorf("len(order) = %d, want %d", len(order), len(tt.nodes))
			}
			for id, want := range tt.levels {
				if got := levels[id]; got != want {
					t.Errorf("level(%s) = %d, want %d", id, got, want)
				}
			}
			for _, e := range g.Edges() {
				if levels[e.To] <= levels[e.From] {
					t.Errorf("edge %s→%s not monotonic: %d -> %d", e.From, e.To, levels[e.From], levels[e.To])
				}
			}
		})
	}
}

func TestAssignLevels_Cycle(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}})

	order, levels, err := AssignLevels(g)
	if !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Fatalf("AssignLevels() error = %v, want ErrGraphHasCycle", err)
	}
	if order != nil || levels != nil {
		t.Errorf("AssignLevels() returned partial results: %v %v", order, levels)
	}
}

func TestGroupByLevel(t *testing.T) {
	order := []string{"a", "d", "b", "c"}
	levels := map[string]int{"a": 0, "d": 0, "b": 1, "c": 2}

	rows := GroupByLevel(order, levels)
	want := [][]string{{"a", "d"}, {"b"}, {"c"}}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if !slices.Equal(rows[i], want[i]) {
			t.Errorf("rows[%d] = %v, want %v", i, rows[i], want[i])
		}
	}

	if got := GroupByLevel(nil, nil); len(got) != 0 {
		t.Errorf("GroupByLevel(nil) = %v, want empty", got)
	}
}

func TestTransitiveReduction(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []string
		edges   [][2]string
		removed int
		gone    [][2]string
	}{
		{name: "empty"},
		{
			name:  "chain unchanged",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name:    "shortcut removed",
			nodes:   []string{"a", "b", "c"},
			edges:   [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
			removed: 1,
			gone:    [][2]string{{"a", "c"}},
		},
		{
			name:    "transitive closure of four",
			nodes:   []string{"a", "b", "c", "d"},
			edges:   [][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}},
			removed: 3,
			gone:    [][2]string{{"a", "c"}, {"a", "d"}, {"b", "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			sources := len(g.Sources())

			if got := TransitiveReduction(g); got != tt.removed {
				t.Errorf("TransitiveReduction() removed %d, want %d", got, tt.removed)
			}
			if g.EdgeCount() != len(tt.edges)-tt.removed {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), len(tt.edges)-tt.removed)
			}
			for _, e := range tt.gone {
				if g.HasEdge(e[0], e[1]) {
					t.Errorf("edge %s→%s should have been removed", e[0], e[1])
				}
			}
			if len(g.Sources()) != sources {
				t.Errorf("Sources() changed from %d to %d", sources, len(g.Sources()))
			}
		})
	}
}

func TestTransitiveReduction_PreservesLevels(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}})
	_, before, err := AssignLevels(g)
	if err != nil {
		t.Fatal(err)
	}

	TransitiveReduction(g)

	_, after, err := AssignLevels(g)
	if err != nil {
		t.Fatal(err)
	}
	for id, l := range before {
		if after[id] != l {
			t.Errorf("level(%s) = %d after reduction, want %d", id, after[id], l)
		}
	}
}
