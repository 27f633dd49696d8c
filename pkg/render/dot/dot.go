// Package dot renders placements through Graphviz.
//
// Every anchor and label becomes a node pinned to its placed position
// (pos="x,y!") and every leader becomes an edge, so neato draws the chart
// exactly as annealed without running its own layout. This gives a second,
// independently rendered view of a placement and a DOT file that can be
// edited by hand.
//
//	src := dot.ToDOT(p)
//	svg, err := dot.RenderSVG(src)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/render"
)

// pointsPerInch converts placement units to the inches Graphviz sizes nodes in.
const pointsPerInch = 72.0

// ToDOT converts a placement to Graphviz DOT source. Graphviz puts the origin
// at the bottom left, so y coordinates are flipped against the viewport height.
func ToDOT(p *chart.Placement) string {
	var buf bytes.Buffer
	buf.WriteString("graph leaderline {\n")
	buf.WriteString("  graph [inputscale=72, splines=line, outputorder=edgesfirst, bgcolor=\"transparent\"];\n")
	buf.WriteString("  node [fontname=\"monospace\", fontsize=11, margin=0];\n")
	buf.WriteString("  edge [color=\"#666666\", penwidth=0.8];\n")
	buf.WriteString("\n")

	for i, l := range p.Labels {
		a := l.Anchor
		d := max(2*a.R, 3) / pointsPerInch
		fmt.Fprintf(&buf, "  a%d [shape=point, width=%s, pos=\"%s,%s!\"];\n",
			i, num(d), num(a.X), num(p.Height-a.Y))
	}
	buf.WriteString("\n")

	for i, l := range p.Labels {
		b := l.Box()
		cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
		fmt.Fprintf(&buf, "  l%d [shape=box, style=\"rounded\", fixedsize=true, width=%s, height=%s, label=%q, pos=\"%s,%s!\"];\n",
			i, num(l.Width/pointsPerInch), num(l.Height/pointsPerInch), l.Name, num(cx), num(p.Height-cy))
	}
	buf.WriteString("\n")

	for i := range p.Labels {
		fmt.Fprintf(&buf, "  a%d -- l%d;\n", i, i)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out DOT source with neato, honouring pinned positions, and
// returns SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes the
// drawing in points, with one sized in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
