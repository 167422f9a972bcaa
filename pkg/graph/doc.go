// Package graph provides serialization types for subsumption graphs and their
// layouts.
//
// This package defines the wire format used for JSON files, API responses
// and cached analyses.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Graph], [Layout]: serialization types (this package)
//   - pkg/dag.DAG: internal graph representation
//   - pkg/subsumption.Analysis: internal analysis result
//
// Use [FromDAG]/[ToDAG] and [FromAnalysis] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Node IDs are group labels:
//
//	{
//	  "nodes": [
//	    {"id": "3", "mutants": ["3"], "kill_set": ["t1"], "dominator": true},
//	    {"id": "1, 2", "mutants": ["1", "2"], "kill_set": ["t1", "t2"]}
//	  ],
//	  "edges": [{"from": "3", "to": "1, 2"}]
//	}
//
// # Layout Serialization
//
// A [Layout] adds positions (level, x, y), the rows per level, the dominator
// list, analysis statistics and the frame size. Renderers consume layouts
// directly, so a saved layout can be drawn again without the source CSV:
//
//	l, _ := graph.ReadLayoutFile("dmsg.json")
//	svg := layered.RenderSVG(l)
//
// [LoadFile] accepts either a saved layout or a bare graph. A bare graph has
// no positions; [LayoutFromGraph] recomputes dominators and levels from its
// edges.
//
// [Reduce] drops edges implied by transitivity. This only changes what is
// drawn; dominators and levels are unaffected.
//
// # Constants
//
// This package is the single source of truth for visualization types:
//
//	graph.VizTypeLayered   // "layered"
//	graph.VizTypeNodelink  // "nodelink"
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
