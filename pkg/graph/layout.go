package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/mutdom/pkg/dag/transform"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// ErrInvalidLayout is returned when a serialized layout is structurally
// inconsistent.
var ErrInvalidLayout = errors.New("invalid layout")

// Frame size in drawing units: every node gets 1.5 units of width, every
// level 1.2 units of height, and the frame is never narrower than 6 units.
const (
	UnitsPerColumn = 1.5
	UnitsPerLevel  = 1.2
	MinWidthUnits  = 6.0
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for a laid-out subsumption graph.
//
// Both visualization types share the positioned nodes and edges. A nodelink
// layout may additionally carry the Graphviz DOT source it was rendered
// from.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type"`

	// Frame dimensions in drawing units
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Graph structure with positions
	Nodes      []Node     `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	Levels     [][]string `json:"levels"`
	MaxWidth   int        `json:"max_width"`
	Dominators []string   `json:"dominators"`

	Stats *subsumption.Stats `json:"stats,omitempty"`

	// Display options
	Reduced  bool `json:"reduced,omitempty"`
	Detailed bool `json:"detailed,omitempty"`

	// Nodelink-specific
	DOT string `json:"dot,omitempty"`
}

// IsLayered returns true if this is a layered layout.
func (l *Layout) IsLayered() bool { return l.VizType == VizTypeLayered }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Node returns the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Graph returns the structural part of the layout.
func (l *Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges}
}

// FrameSize returns the frame dimensions for a layout maxWidth nodes wide and
// depth levels deep.
func FrameSize(maxWidth, depth int) (width, height float64) {
	return max(MinWidthUnits, float64(maxWidth)*UnitsPerColumn), float64(depth) * UnitsPerLevel
}

// FromAnalysis exports an analysis as a Layout of the given visualization
// type. Nodes are listed in graph insertion order with their positions.
func FromAnalysis(a *subsumption.Analysis, vizType string) Layout {
	g := FromDAG(a.Graph)
	for i := range g.Nodes {
		if pos, ok := a.Layout.Position(g.Nodes[i].ID); ok {
			g.Nodes[i].Level = pos.Level
			g.Nodes[i].X = pos.X
			g.Nodes[i].Y = pos.Y
		}
	}

	levels := make([][]string, len(a.Layout.Levels))
	for i, row := range a.Layout.Levels {
		levels[i] = slices.Clone(row)
	}

	stats := a.Stats
	width, height := FrameSize(a.Layout.MaxWidth, a.Layout.Depth())
	return Layout{
		VizType:    vizType,
		Width:      width,
		Height:     height,
		Nodes:      g.Nodes,
		Edges:      g.Edges,
		Levels:     levels,
		MaxWidth:   a.Layout.MaxWidth,
		Dominators: fromMutantIDs(a.Dominators),
		Stats:      &stats,
	}
}

// Reduce returns a copy of l that keeps only the edges of the transitive
// reduction. Node positions, levels and dominators are unchanged.
func Reduce(l Layout) (Layout, error) {
	d, err := ToDAG(l.Graph())
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	transform.TransitiveReduction(d)

	out := l
	out.Nodes = slices.Clone(l.Nodes)
	out.Edges = FromDAG(d).Edges
	out.Reduced = true
	return out, nil
}

// Validate checks that l has a known viz type, unique node IDs and edges
// between known nodes.
func (l *Layout) Validate() error {
	if !slices.Contains(VizTypes, l.VizType) {
		return fmt.Errorf("%w: unknown viz type %q", ErrInvalidLayout, l.VizType)
	}
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node without id", ErrInvalidLayout)
		}
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidLayout, n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.From] || !ids[e.To] {
			return fmt.Errorf("%w: edge %s→%s references unknown node", ErrInvalidLayout, e.From, e.To)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
// A missing viz type defaults to layered.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeLayered
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
