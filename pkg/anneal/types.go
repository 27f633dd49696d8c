package anneal

// baselineOffset shifts a label's box below its reference point so that the
// reference point sits close to the text baseline.
const baselineOffset = 2.0

// Label is a movable text box. X and Y are the reference corner that the
// leader line attaches to.
type Label struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Name   string  `json:"name,omitempty"`
}

// Box returns the rectangle covered by the label: [x, x+w] × [y-h+2, y+2].
func (l Label) Box() Rect {
	return Rect{
		MinX: l.X,
		MinY: l.Y - l.Height + baselineOffset,
		MaxX: l.X + l.Width,
		MaxY: l.Y + baselineOffset,
	}
}

// Anchor is the fixed point a label annotates. R is the half-size of the
// square around the point that labels should stay clear of.
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Box returns the exclusion square of the anchor.
func (a Anchor) Box() Rect {
	return Rect{MinX: a.X - a.R, MinY: a.Y - a.R, MaxX: a.X + a.R, MaxY: a.Y + a.R}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Overlap returns the area shared by r and o, or 0 when they are disjoint.
func (r Rect) Overlap(o Rect) float64 {
	w := max(0, min(r.MaxX, o.MaxX)-max(r.MinX, o.MinX))
	h := max(0, min(r.MaxY, o.MaxY)-max(r.MinY, o.MinY))
	return w * h
}

// Weights scales the terms of [WeightedEnergy].
type Weights struct {
	Length        float64 `json:"length" toml:"length" yaml:"length"`                         // leader line length
	Intersection  float64 `json:"intersection" toml:"intersection" yaml:"intersection"`       // leader line crossing
	LabelOverlap  float64 `json:"label_overlap" toml:"label_overlap" yaml:"label_overlap"`    // label-label overlap area
	AnchorOverlap float64 `json:"anchor_overlap" toml:"anchor_overlap" yaml:"anchor_overlap"` // label-anchor overlap area
	Orientation   float64 `json:"orientation" toml:"orientation" yaml:"orientation"`          // quadrant bias
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		Length:        0.2,
		Intersection:  1.0,
		LabelOverlap:  30.0,
		AnchorOverlap: 30.0,
		Orientation:   3.0,
	}
}
