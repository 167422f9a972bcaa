package subsumption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/killmap"
)

func killMap(entries map[killmap.MutantID][]killmap.TestID) killmap.KillMap {
	km := killmap.New()
	for m, tests := range entries {
		km[m] = killmap.NewKillSet(tests...)
	}
	return km
}

func ids(s ...string) []killmap.MutantID {
	out := make([]killmap.MutantID, len(s))
	for i, v := range s {
		out[i] = killmap.MutantID(v)
	}
	return out
}

func edgeSet(g *dag.DAG) map[[2]string]bool {
	out := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		out[[2]string{e.From, e.To}] = true
	}
	return out
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name       string
		km         killmap.KillMap
		labels     []string
		edges      [][2]string
		dominators []killmap.MutantID
		levels     map[string]int
	}{
		{
			name: "equal sets merge",
			km: killMap(map[killmap.MutantID][]killmap.TestID{
				"1": {"t1", "t2"},
				"2": {"t1", "t2"},
				"3": {"t1"},
			}),
			labels:     []string{"1, 2", "3"},
			edges:      [][2]string{{"3", "1, 2"}},
			dominators: ids("3"),
			levels:     map[string]int{"3": 0, "1, 2": 1},
		},
		{
			name: "incomparable sets",
			km: killMap(map[killmap.MutantID][]killmap.TestID{
				"1": {"t1"},
				"2": {"t2"},
			}),
			labels:     []string{"1", "2"},
			dominators: ids("1", "2"),
			levels:     map[string]int{"1": 0, "2": 0},
		},
		{
			name:       "empty kill set",
			km:         killMap(map[killmap.MutantID][]killmap.TestID{"1": nil}),
			labels:     []string{"1"},
			dominators: ids("1"),
			levels:     map[string]int{"1": 0},
		},
		{
			name: "nested chain",
			km: killMap(map[killmap.MutantID][]killmap.TestID{
				"1": {"t1"},
				"2": {"t1", "t2"},
				"3": {"t1", "t2", "t3"},
			}),
			labels:     []string{"1", "2", "3"},
			edges:      [][2]string{{"1", "2"}, {"2", "3"}, {"1", "3"}},
			dominators: ids("1"),
			levels:     map[string]int{"1": 0, "2": 1, "3": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.km)
			require.NoError(t, err)

			assert.Equal(t, tt.labels, a.Graph.NodeIDs())
			assert.Equal(t, len(tt.edges), a.Graph.EdgeCount())
			for _, e := range tt.edges {
				assert.True(t, a.Graph.HasEdge(e[0], e[1]), "missing edge %s -> %s", e[0], e[1])
			}
			assert.Equal(t, tt.dominators, a.Dominators)
			for id, level := range tt.levels {
				pos, ok := a.Layout.Position(id)
				require.True(t, ok, "no position for %s", id)
				assert.Equal(t, level, pos.Level, "level of %s", id)
				assert.Equal(t, -float64(level), pos.Y, "y of %s", id)
			}
		})
	}
}

func TestGroupByKillSet(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"10": {"t1"},
		"2":  {"t2"},
		"9":  {"t1"},
		"1":  {"t2"},
		"5":  nil,
		"4":  nil,
	})

	groups := GroupByKillSet(km)
	require.Len(t, groups, 3)

	assert.Equal(t, ids("1", "2"), groups[0].Mutants)
	assert.Equal(t, ids("4", "5"), groups[1].Mutants)
	assert.True(t, groups[1].KillSet.IsEmpty())
	assert.Equal(t, ids("9", "10"), groups[2].Mutants)
	assert.Equal(t, "9, 10", groups[2].Label())
}

func TestGroupByKillSetPartition(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"1": {"a", "b"}, "2": {"b", "a"}, "3": {"a"}, "4": {"c"},
		"5": nil, "6": {"a", "b", "c"}, "7": {"c"}, "8": {"a"},
	})

	seen := make(map[killmap.MutantID]int)
	keys := make(map[string]bool)
	for _, g := range GroupByKillSet(km) {
		require.NotEmpty(t, g.Mutants)
		assert.False(t, keys[g.KillSet.Key()], "kill set %s appears in two groups", g.KillSet)
		keys[g.KillSet.Key()] = true
		for _, m := range g.Mutants {
			seen[m]++
			assert.True(t, km[m].Equal(g.KillSet), "mutant %s in wrong group", m)
		}
	}
	assert.Len(t, seen, km.Len())
	for m, n := range seen {
		assert.Equal(t, 1, n, "mutant %s appears %d times", m, n)
	}
}

func TestGroupByKillSetControlCharacters(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"1": {"a\x1fb"},
		"2": {"a", "b"},
		"3": {"a\x1f", "b"},
	})

	groups := GroupByKillSet(km)
	require.Len(t, groups, 3)
	for i, g := range groups {
		assert.Len(t, g.Mutants, 1, "group %d", i)
	}
}

func TestGroupByKillSetEmpty(t *testing.T) {
	assert.Empty(t, GroupByKillSet(killmap.New()))
	assert.Empty(t, GroupByKillSet(nil))
}

func TestGroupByKillSetDoesNotMutateInput(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{"1": {"t1"}, "2": {"t1"}})
	before := km["1"].Key()

	_ = GroupByKillSet(km)

	assert.Equal(t, 2, km.Len())
	assert.Equal(t, before, km["1"].Key())
}

func TestBuildGraphEdgesMatchStrictSubset(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"1": {"a"}, "2": {"b"}, "3": {"a", "b"}, "4": {"a", "c"},
		"5": {"a", "b", "c"}, "6": nil, "7": {"d"},
	})
	groups := GroupByKillSet(km)

	g, err := BuildGraph(groups)
	require.NoError(t, err)

	edges := edgeSet(g)
	for _, a := range groups {
		for _, b := range groups {
			want := a.KillSet.IsStrictSubsetOf(b.KillSet)
			got := edges[[2]string{a.Label(), b.Label()}]
			assert.Equal(t, want, got, "edge %s -> %s", a.Label(), b.Label())
		}
	}
	_, err = g.TopologicalOrder()
	require.NoError(t, err)
}

func TestBuildGraphMetadata(t *testing.T) {
	groups := []Group{{KillSet: killmap.NewKillSet("t1"), Mutants: ids("3", "4")}}
	g, err := BuildGraph(groups)
	require.NoError(t, err)

	n, ok := g.Node("3, 4")
	require.True(t, ok)
	assert.Equal(t, ids("3", "4"), NodeMutants(n))
	ks, ok := NodeKillSet(n)
	require.True(t, ok)
	assert.True(t, ks.Equal(killmap.NewKillSet("t1")))
}

func TestBuildGraphDuplicateLabel(t *testing.T) {
	groups := []Group{
		{KillSet: killmap.NewKillSet("t1"), Mutants: ids("1")},
		{KillSet: killmap.NewKillSet("t2"), Mutants: ids("1")},
	}
	_, err := BuildGraph(groups)
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestBuildGraphEmpty(t *testing.T) {
	g, err := BuildGraph(nil)
	require.NoError(t, err)
	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
}

func TestDominators(t *testing.T) {
	g := dag.New(nil)
	for _, id := range []string{"10, 12", "3", "2, 11", "1"} {
		require.NoError(t, g.AddNode(dag.Node{ID: id}))
	}
	require.NoError(t, g.AddEdge(dag.Edge{From: "3", To: "1"}))

	assert.Equal(t, ids("2", "3", "10", "11", "12"), Dominators(g))
	assert.True(t, IsDominator(g, "3"))
	assert.False(t, IsDominator(g, "1"))
	assert.False(t, IsDominator(g, "missing"))

	assert.NotNil(t, Dominators(nil))
	assert.Empty(t, Dominators(dag.New(nil)))
}

func TestDominatorsAreNotSubsumed(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"1": {"a"}, "2": {"a", "b"}, "3": {"c"}, "4": {"b", "c"}, "5": {"a", "b", "c"},
	})
	a, err := Analyze(km)
	require.NoError(t, err)

	dominators := make(map[killmap.MutantID]bool)
	for _, d := range a.Dominators {
		dominators[d] = true
	}
	for m, ks := range km {
		subsumed := false
		for other, oks := range km {
			if other != m && oks.IsStrictSubsetOf(ks) {
				subsumed = true
			}
		}
		assert.Equal(t, !subsumed, dominators[m], "mutant %s", m)
	}
	assert.Equal(t, ids("1", "3"), a.Dominators)
}

func TestEmptyKillSetIsDominator(t *testing.T) {
	km := killMap(map[killmap.MutantID][]killmap.TestID{
		"1": nil,
		"2": {"a"},
		"3": {"a", "b"},
	})
	a, err := Analyze(km)
	require.NoError(t, err)

	assert.Equal(t, ids("1"), a.Dominators)
	assert.Equal(t, [][]string{{"1"}, {"2"}, {"3"}}, a.Layout.Levels)
	assert.True(t, IsDominator(a.Graph, "1"))
	assert.False(t, IsDominator(a.Graph, "2"))
	assert.Equal(t, 2, a.Graph.OutDegree("1"))
}

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		label string
		want  []killmap.MutantID
	}{
		{"", nil},
		{"  ", nil},
		{"7", ids("7")},
		{"1, 2", ids("1", "2")},
		{"1,2 ,3", ids("1", "2", "3")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLabel(tt.label), "SplitLabel(%q)", tt.label)
	}
	assert.Equal(t, "1, 2", JoinLabel(SplitLabel("1,2")))
}
