package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mutdom/pkg/dag"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// =============================================================================
// Bare Graph Input
// =============================================================================

// ReadGraph decodes a bare subsumption graph (nodes and edges, no positions)
// from r. Edges are taken as given; use LayoutFromGraph to derive levels and
// dominators from them.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	var gj Graph
	if err := json.NewDecoder(r).Decode(&gj); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return ToDAG(gj)
}

// LayoutFromGraph lays out g as a fresh analysis would: dominators, levels,
// positions and stats are recomputed from its nodes and edges. A cyclic
// graph is rejected with ErrInvalidLayout.
func LayoutFromGraph(g *dag.DAG, vizType string) (Layout, error) {
	a, err := subsumption.AnalyzeGraph(g)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return FromAnalysis(a, vizType), nil
}

// =============================================================================
// Layout or Graph
// =============================================================================

// DecodeLayout decodes a saved layout or a bare graph. A document carrying
// viz_type or levels is a layout and is validated as one; anything else is
// read as a graph and laid out as layered.
func DecodeLayout(data []byte) (Layout, error) {
	var head struct {
		VizType *string          `json:"viz_type"`
		Levels  *json.RawMessage `json:"levels"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if head.VizType != nil || head.Levels != nil {
		return UnmarshalLayout(data)
	}

	g, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return LayoutFromGraph(g, VizTypeLayered)
}

// LoadFile reads a saved layout or a bare graph from path.
func LoadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeLayout(data)
}
