// Package layered draws a subsumption layout as an SVG image.
//
// Every node is drawn at the position the analysis computed: level 0 (the
// dominators and every group nothing else subsumes) at the top, each deeper
// level one row further down, rows centered horizontally. Nodes are circles
// labeled with their mutant IDs and edges are arrows from the subsuming group
// to the subsumed one. Dominator nodes are highlighted.
//
// The image is sized from the layout frame: at least 6 units wide, 1.5 units
// per node on the widest row and 1.2 units per level, with [WithScale]
// pixels per unit. Setting the layout's Detailed flag adds each node's kill
// set below its label.
//
//	svg := layered.RenderSVG(l, layered.WithScale(80))
package layered
