package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/leaderline/pkg/chart"
)

const (
	textInset      = 2.0
	descentRatio   = 2.0 / 13.0
	minFontSize    = 6.0
	boxOutlineDash = "3,2"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	boxes      bool
	background string
}

// WithStyle selects the visual style. The default is [Simple].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithBoxes outlines the collision box of every label.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

// WithBackground fills the canvas with an SVG color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws p as a standalone SVG document sized to the placement
// viewport. Leaders are drawn first so that anchors and labels sit on top.
func RenderSVG(p *chart.Placement, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		p.Width, p.Height, p.Width, p.Height)
	if p.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(p.Title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}
	r.style.RenderDefs(&buf)

	for i, l := range p.Labels {
		r.style.RenderLeader(&buf, buildLeader(i, l))
	}
	for i, l := range p.Labels {
		r.style.RenderAnchor(&buf, Anchor{ID: fmt.Sprintf("anchor-%d", i), X: l.Anchor.X, Y: l.Anchor.Y, R: l.Anchor.R})
	}
	for i, l := range p.Labels {
		r.style.RenderLabel(&buf, buildLabel(i, l))
	}
	if r.boxes {
		renderBoxes(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildLeader(i int, l chart.PlacedLabel) Leader {
	return Leader{
		ID: fmt.Sprintf("leader-%d", i),
		X1: l.Anchor.X, Y1: l.Anchor.Y,
		X2: l.X, Y2: l.Y,
	}
}

func buildLabel(i int, l chart.PlacedLabel) Label {
	box := l.Box()
	h := box.MaxY - box.MinY
	fontSize := max(minFontSize, h-2*textInset)
	return Label{
		ID:       fmt.Sprintf("label-%d", i),
		Text:     l.Name,
		X:        box.MinX,
		Y:        box.MinY,
		W:        box.MaxX - box.MinX,
		H:        h,
		TextX:    box.MinX + textInset,
		TextY:    box.MaxY - textInset - fontSize*descentRatio,
		FontSize: fontSize,
	}
}

func renderBoxes(buf *bytes.Buffer, p *chart.Placement) {
	buf.WriteString(`  <g class="collision-boxes" fill="none" stroke="#d33" stroke-width="0.6" stroke-dasharray="` + boxOutlineDash + `">` + "\n")
	for _, l := range p.Labels {
		b := l.Box()
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			b.MinX, b.MinY, b.MaxX-b.MinX, b.MaxY-b.MinY)
		a := l.Anchor.Box()
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			a.MinX, a.MinY, a.MaxX-a.MinX, a.MaxY-a.MinY)
	}
	buf.WriteString("  </g>\n")
}
