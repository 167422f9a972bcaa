// Package nodelink renders subsumption graphs as Graphviz node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. Each
// group of mutants is a circle, each subsumption is an arrow from the
// subsuming group to the subsumed one. Dominators are filled in a contrasting
// color.
//
// # Usage
//
// Convert a layout to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Ranks
//
// Every level of the layout becomes a rank=same subgraph, so Graphviz keeps
// the rows computed by the analysis and only decides the horizontal order
// and edge routing.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
