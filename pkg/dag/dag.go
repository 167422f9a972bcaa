package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] when From and To are the same
	// node.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrGraphHasCycle is returned by [DAG.TopologicalOrder] when a
	// directed cycle exists.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil - they are automatically initialized to empty
// maps when needed.
type Metadata map[string]any

// Node is a vertex of the graph. In a subsumption graph the ID is the node's
// label: the comma-joined mutant IDs of one equivalence class.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID   string   // Unique identifier (also used as display label)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge represents a directed connection between two nodes.
type Edge struct {
	From string   // Source node ID
	To   string   // Target node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed graph intended to be acyclic. Acyclicity is not enforced
// on insertion; use [DAG.TopologicalOrder] to check it.
//
// Nodes and edges are kept in insertion order so that traversals, exports and
// layouts are deterministic.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist,
// ErrUnknownTargetNode if the To node doesn't exist, or ErrSelfLoop if
// both endpoints are the same. The edge's Meta field is automatically
// initialized to an empty map if nil.
//
// AddEdge does not check for cycles spanning several edges.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
// No error is returned if the edge does not exist.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// HasEdge reports whether an edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	return slices.Contains(d.outgoing[from], to)
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in the graph.
// The order matches insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes that this node has edges to.
// Returns nil if the node has no children or doesn't exist. The returned slice
// should not be modified - use it as a read-only view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// Returns nil if the node has no parents or doesn't exist. The returned slice
// should not be modified - use it as a read-only view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes with no incoming edges, in insertion order.
// Returns nil for an empty graph.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// TopologicalOrder returns node IDs such that every edge points forward.
//
// It runs Kahn's algorithm seeded with the sources in insertion order, so
// the result is deterministic for a given construction sequence. If the
// graph has a cycle, the nodes on or behind it never reach in-degree zero and
// ErrGraphHasCycle is returned together with a nil slice.
func (d *DAG) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(d.nodes))
	queue := make([]string, 0, len(d.nodes))
	for _, id := range d.order {
		inDegree[id] = len(d.incoming[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(d.nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, child := range d.outgoing[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(d.nodes) {
		return nil, ErrGraphHasCycle
	}
	return order, nil
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
