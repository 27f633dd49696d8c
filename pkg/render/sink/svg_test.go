package sink

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/chart"
)

func testPlacement() *chart.Placement {
	return &chart.Placement{
		Title:  "Cities <EU>",
		Width:  200,
		Height: 100,
		Labels: []chart.PlacedLabel{
			{Name: "Berlin", X: 60, Y: 40, Width: 46, Height: 17, Anchor: anneal.Anchor{X: 50, Y: 50, R: 3}},
			{Name: "A&B", X: 120, Y: 80, Width: 25, Height: 17, Anchor: anneal.Anchor{X: 110, Y: 90, R: 0}},
		},
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	for _, style := range []Style{Simple{}, Boxed{}} {
		svg := RenderSVG(testPlacement(), WithStyle(style), WithBoxes(), WithBackground("#fafafa"))

		dec := xml.NewDecoder(strings.NewReader(string(svg)))
		for {
			_, err := dec.Token()
			if err != nil {
				if err != io.EOF {
					t.Fatalf("%T: malformed SVG: %v\n%s", style, err, svg)
				}
				break
			}
		}
	}
}

func TestRenderSVGContent(t *testing.T) {
	svg := string(RenderSVG(testPlacement()))

	for _, want := range []string{
		`viewBox="0 0 200.0 100.0" width="200" height="100"`,
		`<title>Cities &lt;EU&gt;</title>`,
		`id="leader-0" class="leader" x1="50.00" y1="50.00" x2="60.00" y2="40.00"`,
		`id="anchor-1" class="anchor" cx="110.00" cy="90.00" r="1.50"`,
		`>Berlin</text>`,
		`>A&amp;B</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	if strings.Contains(svg, "collision-boxes") {
		t.Error("collision boxes drawn without WithBoxes")
	}
	if strings.Index(svg, "leader-1") > strings.Index(svg, "anchor-0") {
		t.Error("leaders should be drawn before anchors")
	}
}

func TestRenderSVGBoxed(t *testing.T) {
	svg := string(RenderSVG(testPlacement(), WithStyle(Boxed{}), WithBoxes()))
	if got := strings.Count(svg, `class="label-box"`); got != 2 {
		t.Errorf("label boxes = %d, want 2", got)
	}
	if !strings.Contains(svg, "label-shadow") {
		t.Error("boxed style should define its shadow filter")
	}
	if !strings.Contains(svg, "collision-boxes") {
		t.Error("WithBoxes should outline collision boxes")
	}
}

func TestBuildLabel(t *testing.T) {
	l := buildLabel(0, chart.PlacedLabel{Name: "x", X: 10, Y: 30, Width: 20, Height: 17})
	// Box spans y in [15, 32].
	if l.X != 10 || l.Y != 15 || l.W != 20 || l.H != 17 {
		t.Errorf("box = %v,%v %vx%v", l.X, l.Y, l.W, l.H)
	}
	if l.FontSize != 13 {
		t.Errorf("FontSize = %v, want 13", l.FontSize)
	}
	if l.TextY != 28 {
		t.Errorf("TextY = %v, want 28", l.TextY)
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"", Simple{}, false},
		{"simple", Simple{}, false},
		{"boxed", Boxed{}, false},
		{"handdrawn", nil, true},
	}

	for _, tt := range tests {
		got, err := StyleFor(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("StyleFor(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("StyleFor(%q) = %T, want %T", tt.name, got, tt.want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testPlacement())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	p, err := chart.UnmarshalPlacement(data)
	if err != nil {
		t.Fatalf("UnmarshalPlacement() error: %v", err)
	}
	if len(p.Labels) != 2 || p.Labels[1].Name != "A&B" {
		t.Errorf("round trip = %+v", p)
	}
}
