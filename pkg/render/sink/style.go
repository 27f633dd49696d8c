package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Style names accepted by [StyleFor].
const (
	StyleSimple = "simple"
	StyleBoxed  = "boxed"
)

// Style defines how the parts of a placement are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderLeader writes the line joining an anchor to its label.
	RenderLeader(buf *bytes.Buffer, l Leader)
	// RenderAnchor writes the marker of an annotated point.
	RenderAnchor(buf *bytes.Buffer, a Anchor)
	// RenderLabel writes the label text and any decoration behind it.
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Anchor is an annotated point ready to draw.
type Anchor struct {
	ID      string
	X, Y, R float64
}

// Leader is a leader line ready to draw.
type Leader struct {
	ID             string
	X1, Y1, X2, Y2 float64 // anchor to label reference corner
}

// Label is a label ready to draw.
type Label struct {
	ID           string
	Text         string
	X, Y, W, H   float64 // top-left corner and size of the label box
	TextX, TextY float64 // text baseline start
	FontSize     float64
}

// StyleFor returns the style registered under name.
func StyleFor(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleBoxed:
		return Boxed{}, nil
	}
	return nil, fmt.Errorf("unknown style %q", name)
}

// Simple draws plain text, small dots and thin grey leaders.
type Simple struct{}

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderLeader(buf *bytes.Buffer, l Leader) {
	fmt.Fprintf(buf, `  <line id="%s" class="leader" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#888" stroke-width="0.8"/>`+"\n",
		l.ID, l.X1, l.Y1, l.X2, l.Y2)
}

func (Simple) RenderAnchor(buf *bytes.Buffer, a Anchor) {
	fmt.Fprintf(buf, `  <circle id="%s" class="anchor" cx="%.2f" cy="%.2f" r="%.2f" fill="#333"/>`+"\n",
		a.ID, a.X, a.Y, max(a.R, 1.5))
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	writeText(buf, l, "#222")
}

// Boxed draws every label on a white rounded box with a dark outline.
type Boxed struct{}

func (Boxed) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="label-shadow" x="-10%" y="-10%" width="130%" height="140%">
      <feDropShadow dx="0.8" dy="0.8" stdDeviation="0.6" flood-opacity="0.3"/>
    </filter>
  </defs>
`)
}

func (Boxed) RenderLeader(buf *bytes.Buffer, l Leader) {
	fmt.Fprintf(buf, `  <line id="%s" class="leader" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#444" stroke-width="1"/>`+"\n",
		l.ID, l.X1, l.Y1, l.X2, l.Y2)
}

func (Boxed) RenderAnchor(buf *bytes.Buffer, a Anchor) {
	fmt.Fprintf(buf, `  <circle id="%s" class="anchor" cx="%.2f" cy="%.2f" r="%.2f" fill="#fff" stroke="#222" stroke-width="1"/>`+"\n",
		a.ID, a.X, a.Y, max(a.R, 2))
}

func (Boxed) RenderLabel(buf *bytes.Buffer, l Label) {
	fmt.Fprintf(buf, `  <rect class="label-box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="#fff" stroke="#222" stroke-width="0.8" filter="url(#label-shadow)"/>`+"\n",
		l.X, l.Y, l.W, l.H)
	writeText(buf, l, "#111")
}

func writeText(buf *bytes.Buffer, l Label, fill string) {
	fmt.Fprintf(buf, `  <text id="%s" class="label" x="%.2f" y="%.2f" font-family="monospace" font-size="%.1f" fill="%s">%s</text>`+"\n",
		l.ID, l.TextX, l.TextY, l.FontSize, fill, EscapeXML(l.Text))
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
