package layered

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/mutdom/pkg/graph"
)

const (
	// DefaultScale is the number of pixels per layout unit.
	DefaultScale = 100.0

	nodeRadius = 0.3 // in layout units
	arrowSize  = 8.0 // in pixels

	fillRegular   = "#87ceeb" // skyblue
	fillDominator = "#ffa500" // orange
	strokeNode    = "#4a4a4a"
	strokeEdge    = "#808080"

	fontSizeMax    = 16.0
	fontSizeMin    = 7.0
	fontCharWidth  = 0.6
	fontWidthRatio = 0.85
)

const edgeCSS = `
    .node circle { transition: stroke-width 0.2s ease; }
    .node:hover circle { stroke-width: 3; }
    .edge { fill: none; stroke: ` + strokeEdge + `; stroke-width: 1.5; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale    float64
	detailed bool
}

// WithScale sets the number of pixels per layout unit. Values of zero or
// less keep DefaultScale.
func WithScale(px float64) SVGOption { return func(r *svgRenderer) { r.scale = px } }

// RenderSVG draws l. Kill sets are added below the labels when l.Detailed
// is set. Nodes without a position (level 0, x 0) are drawn where
// the zero position maps to, so a layout with missing positions still
// renders.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	r.detailed = l.Detailed

	frameW, frameH := frame(l)
	width, height := frameW*r.scale, frameH*r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	renderDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", edgeCSS)

	centers := make(map[string][2]float64, len(l.Nodes))
	for _, n := range l.Nodes {
		centers[n.ID] = r.center(n, width)
	}

	radius := nodeRadius * r.scale
	for _, e := range l.Edges {
		from, okF := centers[e.From]
		to, okT := centers[e.To]
		if !okF || !okT {
			continue
		}
		renderEdge(&buf, e, from, to, radius)
	}
	for _, n := range l.Nodes {
		r.renderNode(&buf, n, centers[n.ID], radius)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frame returns the frame size in layout units, falling back to the size
// derived from the levels when the layout does not carry one.
func frame(l graph.Layout) (w, h float64) {
	w, h = l.Width, l.Height
	if w <= 0 || h <= 0 {
		maxWidth := l.MaxWidth
		for _, row := range l.Levels {
			maxWidth = max(maxWidth, len(row))
		}
		w, h = graph.FrameSize(maxWidth, len(l.Levels))
	}
	return w, max(h, graph.UnitsPerLevel)
}

// center maps a layout position to pixel coordinates. Rows are centered on
// the frame's vertical axis and each level gets a band of UnitsPerLevel.
func (r svgRenderer) center(n graph.Node, width float64) [2]float64 {
	cx := width/2 + n.X*graph.UnitsPerColumn*r.scale
	cy := (float64(n.Level) + 0.5) * graph.UnitsPerLevel * r.scale
	return [2]float64{cx, cy}
}

func renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="%.0f" markerHeight="%.0f" orient="auto-start-reverse" markerUnits="userSpaceOnUse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>
    </marker>
  </defs>
`, arrowSize, arrowSize, strokeEdge)
}

// renderEdge draws an arrow between the two circle borders.
func renderEdge(buf *bytes.Buffer, e graph.Edge, from, to [2]float64, radius float64) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	dist := math.Hypot(dx, dy)
	if dist <= 2*radius {
		return
	}
	ux, uy := dx/dist, dy/dist
	x1, y1 := from[0]+ux*radius, from[1]+uy*radius
	x2, y2 := to[0]-ux*radius, to[1]-uy*radius

	fmt.Fprintf(buf, `  <line class="edge" data-from="%s" data-to="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" marker-end="url(#arrow)"/>`+"\n",
		escapeXML(e.From), escapeXML(e.To), x1, y1, x2, y2)
}

func (r svgRenderer) renderNode(buf *bytes.Buffer, n graph.Node, c [2]float64, radius float64) {
	fill := fillRegular
	stroke := 1.5
	if n.Dominator {
		fill = fillDominator
		stroke = 2.5
	}

	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(tooltip(n)))
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		c[0], c[1], radius, fill, strokeNode, stroke)

	lines := strings.Split(n.DisplayLabel(r.detailed), "\n")
	size := fontSize(lines, radius)
	top := c[1] - float64(len(lines)-1)*size*0.6
	for i, line := range lines {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" font-weight="bold" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			c[0], top+float64(i)*size*1.2, size, escapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func tooltip(n graph.Node) string {
	var b strings.Builder
	b.WriteString("mutants: ")
	b.WriteString(n.ID)
	if n.KillSet != nil {
		b.WriteString("\nkilled by: {")
		b.WriteString(strings.Join(n.KillSet, ", "))
		b.WriteString("}")
	}
	if n.Dominator {
		b.WriteString("\ndominator")
	}
	return b.String()
}

// fontSize shrinks the text until the longest line fits the circle.
func fontSize(lines []string, radius float64) float64 {
	longest := 1
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	byWidth := (2 * radius * fontWidthRatio) / (float64(longest) * fontCharWidth)
	byHeight := (2 * radius * fontWidthRatio) / (float64(len(lines)) * 1.2)
	return max(fontSizeMin, min(fontSizeMax, byWidth, byHeight))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
