package chart

import (
	"math"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/errors"
)

func ptr(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		chart   Chart
		wantErr bool
	}{
		{"empty", Chart{}, false},
		{"simple", Chart{Width: 100, Height: 100, Points: []Point{{Name: "a", X: 1, Y: 2, R: 3}}}, false},
		{"explicit label", Chart{Points: []Point{{Name: "a", LabelX: ptr(1), LabelY: ptr(2)}}}, false},

		{"negative width", Chart{Width: -1}, true},
		{"nan height", Chart{Height: math.NaN()}, true},
		{"negative radius", Chart{Points: []Point{{Name: "a", R: -1}}}, true},
		{"infinite x", Chart{Points: []Point{{Name: "a", X: math.Inf(1)}}}, true},
		{"half label position", Chart{Points: []Point{{Name: "a", LabelX: ptr(1)}}}, true},
		{"control char name", Chart{Points: []Point{{Name: "a\nb"}}}, true},
		{"negative label width", Chart{Points: []Point{{Name: "a", LabelWidth: -3}}}, true},
		{"at point limit", Chart{Points: make([]Point, MaxPoints)}, false},
		{"too many points", Chart{Points: make([]Point, MaxPoints+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chart.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidChart) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidChart)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	c := Chart{Width: 300}
	w, h := c.Viewport(800, 600)
	if w != 300 || h != 600 {
		t.Errorf("Viewport() = %v,%v, want 300,600", w, h)
	}
}

func TestMeasureLabel(t *testing.T) {
	// basicfont.Face7x13 advances 7px per glyph with a 13px line.
	w, h := MeasureLabel(basicfont.Face7x13, "Berlin", 2)
	if w != 46 || h != 17 {
		t.Errorf("MeasureLabel() = %v,%v, want 46,17", w, h)
	}
	w, h = MeasureLabel(basicfont.Face7x13, "", 0)
	if w != 0 || h != 13 {
		t.Errorf("MeasureLabel(empty) = %v,%v, want 0,13", w, h)
	}
}

func TestPrepare(t *testing.T) {
	c := Chart{
		Title: "capitals",
		Points: []Point{
			{Name: "Berlin", X: 50, Y: 50, R: 3},
			{Name: "Paris", X: 10, Y: 10, LabelX: ptr(70), LabelY: ptr(20), LabelWidth: 30, LabelHeight: 10},
			{Name: "Oslo", X: 99, Y: 1, R: 4},
		},
	}

	s, err := c.Prepare(PrepareOptions{Width: 100, Height: 80, DefaultRadius: 2})
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if s.Width != 100 || s.Height != 80 || s.Title != "capitals" {
		t.Errorf("scene = %vx%v %q", s.Width, s.Height, s.Title)
	}
	if len(s.Labels) != 3 || len(s.Anchors) != 3 {
		t.Fatalf("got %d labels, %d anchors", len(s.Labels), len(s.Anchors))
	}

	wantAnchors := []anneal.Anchor{{X: 50, Y: 50, R: 3}, {X: 10, Y: 10, R: 2}, {X: 99, Y: 1, R: 4}}
	for i, want := range wantAnchors {
		if s.Anchors[i] != want {
			t.Errorf("Anchors[%d] = %+v, want %+v", i, s.Anchors[i], want)
		}
	}

	wantLabels := []anneal.Label{
		{X: 53, Y: 47, Width: 46, Height: 17, Name: "Berlin"},
		{X: 70, Y: 20, Width: 30, Height: 10, Name: "Paris"},
		{X: 100, Y: 0, Width: 32, Height: 17, Name: "Oslo"}, // clamped into the viewport
	}
	for i, want := range wantLabels {
		if s.Labels[i] != want {
			t.Errorf("Labels[%d] = %+v, want %+v", i, s.Labels[i], want)
		}
	}
}

func TestPrepareErrors(t *testing.T) {
	tests := []struct {
		name  string
		chart Chart
		opts  PrepareOptions
	}{
		{"no viewport", Chart{}, PrepareOptions{}},
		{"point outside", Chart{Points: []Point{{Name: "a", X: 200, Y: 10}}}, PrepareOptions{Width: 100, Height: 100}},
		{"invalid chart", Chart{Points: []Point{{Name: "a", R: -1}}}, PrepareOptions{Width: 100, Height: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.chart.Prepare(tt.opts); err == nil {
				t.Error("Prepare() expected error")
			}
		})
	}
}

func TestPrepareNoPadding(t *testing.T) {
	c := Chart{Points: []Point{{Name: "ab", X: 5, Y: 5}}}
	s, err := c.Prepare(PrepareOptions{Width: 10, Height: 10, Padding: -1})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Labels[0]; got.Width != 14 || got.Height != 13 {
		t.Errorf("label size = %vx%v, want 14x13", got.Width, got.Height)
	}
}
