package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/killmap"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeLayered  = "layered"
	VizTypeNodelink = "nodelink"
)

// VizTypes lists every supported visualization type.
var VizTypes = []string{VizTypeLayered, VizTypeNodelink}

// =============================================================================
// Graph - Subsumption Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for subsumption graphs.
// Used for JSON files, API responses and caching.
//
// Nodes and edges keep the order of the underlying DAG, so
// export → import → export produces identical bytes.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Node - Unified Node Type
// =============================================================================

// Node is the unified node type for graphs and layouts. Level, X and Y are
// only meaningful inside a Layout.
type Node struct {
	ID        string         `json:"id"`
	Mutants   []string       `json:"mutants,omitempty"`
	KillSet   []string       `json:"kill_set"`
	Dominator bool           `json:"dominator,omitempty"`
	Level     int            `json:"level,omitempty"`
	X         float64        `json:"x,omitempty"`
	Y         float64        `json:"y,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label drawn for the node. With detailed set, the
// kill set is appended on a second line.
func (n *Node) DisplayLabel(detailed bool) string {
	if !detailed {
		return n.ID
	}
	return n.ID + "\n{" + strings.Join(n.KillSet, ", ") + "}"
}

// Edge represents a directed subsumption edge: the kill set of From is a
// strict subset of the kill set of To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format.
// Node order follows the DAG's insertion order. Mutants and kill sets are
// taken from the metadata written by subsumption.BuildGraph.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(g, n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// ToDAG converts a Graph to a DAG.
// Returns an error if the structure violates DAG constraints. Mutants and
// kill sets are restored into node metadata so that the subsumption helpers
// work on the result.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(nil)

	for _, nj := range gj.Nodes {
		meta := dag.Metadata{}
		for k, v := range nj.Meta {
			meta[k] = v
		}
		if len(nj.Mutants) > 0 {
			meta[subsumption.MetaMutants] = toMutantIDs(nj.Mutants)
		}
		if nj.KillSet != nil {
			meta[subsumption.MetaKillSet] = toKillSet(nj.KillSet)
		}
		if err := d.AddNode(dag.Node{ID: nj.ID, Meta: meta}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// nodeFromDAG is the single point of conversion for all DAG→Node operations.
func nodeFromDAG(g *dag.DAG, n *dag.Node) Node {
	node := Node{
		ID:        n.ID,
		Mutants:   fromMutantIDs(subsumption.NodeMutants(n)),
		Dominator: subsumption.IsDominator(g, n.ID),
		Meta:      publicMeta(n.Meta),
	}
	if ks, ok := subsumption.NodeKillSet(n); ok {
		node.KillSet = fromTestIDs(ks.Tests())
	}
	return node
}

// publicMeta copies metadata without the keys that are serialized as
// dedicated fields. Returns nil if nothing remains.
func publicMeta(m dag.Metadata) map[string]any {
	var out map[string]any
	for k, v := range m {
		if k == subsumption.MetaMutants || k == subsumption.MetaKillSet {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(m))
		}
		out[k] = v
	}
	return out
}

func fromMutantIDs(ids []killmap.MutantID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toMutantIDs(ids []string) []killmap.MutantID {
	out := make([]killmap.MutantID, len(ids))
	for i, id := range ids {
		out[i] = killmap.MutantID(id)
	}
	return out
}

// fromTestIDs never returns nil: an empty kill set is encoded as [] while
// a node without kill set information is encoded as null.
func fromTestIDs(ids []killmap.TestID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toKillSet(tests []string) killmap.KillSet {
	ids := make([]killmap.TestID, len(tests))
	for i, t := range tests {
		ids[i] = killmap.TestID(t)
	}
	return killmap.NewKillSet(ids...)
}
