package chart

import (
	"github.com/matzehuels/leaderline/pkg/anneal"
)

// PlacedLabel is a label at its final position together with its anchor.
type PlacedLabel struct {
	Name   string        `json:"name"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Anchor anneal.Anchor `json:"anchor"`
}

// Label returns the annealer view of l.
func (l PlacedLabel) Label() anneal.Label {
	return anneal.Label{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height, Name: l.Name}
}

// Box returns the rectangle the label text is drawn in.
func (l PlacedLabel) Box() anneal.Rect { return l.Label().Box() }

// LeaderLength returns the length of the line from the anchor to the label.
func (l PlacedLabel) LeaderLength() float64 { return anneal.LeaderLength(l.Anchor, l.Label()) }

// Quadrant returns the side of the anchor the label sits on.
func (l PlacedLabel) Quadrant() anneal.Quadrant { return anneal.QuadrantOf(l.Anchor, l.Label()) }

// Placement is the result of a placement run.
type Placement struct {
	Title  string        `json:"title,omitempty"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Seed   uint64        `json:"seed"`
	Sweeps int           `json:"sweeps"`
	Energy float64       `json:"energy"`
	Stats  anneal.Stats  `json:"stats"`
	Labels []PlacedLabel `json:"labels"`
}

// NewPlacement snapshots a scene after a run.
func NewPlacement(s *Scene, seed uint64, sweeps int, energy float64, stats anneal.Stats) *Placement {
	p := &Placement{
		Title:  s.Title,
		Width:  s.Width,
		Height: s.Height,
		Seed:   seed,
		Sweeps: sweeps,
		Energy: energy,
		Stats:  stats,
		Labels: make([]PlacedLabel, len(s.Labels)),
	}
	for i, l := range s.Labels {
		p.Labels[i] = PlacedLabel{
			Name:   l.Name,
			X:      l.X,
			Y:      l.Y,
			Width:  l.Width,
			Height: l.Height,
			Anchor: s.Anchors[i],
		}
	}
	return p
}

// Overlap returns the total pairwise overlap area between label boxes.
func (p *Placement) Overlap() float64 {
	var total float64
	for i := range p.Labels {
		total += p.LabelOverlap(i)
	}
	return total / 2
}

// LabelOverlap returns the area label i shares with every other label.
func (p *Placement) LabelOverlap(i int) float64 {
	var total float64
	box := p.Labels[i].Box()
	for j := range p.Labels {
		if j != i {
			total += box.Overlap(p.Labels[j].Box())
		}
	}
	return total
}

// Crossings returns the number of leader line pairs that intersect.
func (p *Placement) Crossings() int {
	n := 0
	for i := range p.Labels {
		for j := i + 1; j < len(p.Labels); j++ {
			a, b := p.Labels[i], p.Labels[j]
			if anneal.LeadersCross(a.Anchor, a.Label(), b.Anchor, b.Label()) {
				n++
			}
		}
	}
	return n
}
