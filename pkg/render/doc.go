// Package render provides visualization rendering for subsumption graphs.
//
// # Overview
//
// This package contains the drawing side of the analysis. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Layered diagrams drawn from the computed layout (in [layered])
//   - Graphviz node-link diagrams (in [nodelink])
//
// Both renderers consume a serialized [graph.Layout], so a layout saved to
// JSON can be drawn again later without the kill map.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// renderers.
//
//	svg := layered.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Layered Diagrams
//
// The [layered] subpackage places every node exactly where the layout put
// it: dominators on the top row, subsumed groups below the groups that
// subsume them. Nodes are circles, edges are arrows.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports Graphviz DOT with one rank per level and
// lets Graphviz route the edges.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [graph.Layout]: github.com/matzehuels/mutdom/pkg/graph.Layout
// [layered]: github.com/matzehuels/mutdom/pkg/render/layered
// [nodelink]: github.com/matzehuels/mutdom/pkg/render/nodelink
package render
