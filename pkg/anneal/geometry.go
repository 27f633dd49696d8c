package anneal

import "math"

// Quadrant identifies where a label sits relative to its anchor, in screen
// coordinates where y grows downwards.
type Quadrant int

const (
	NorthEast Quadrant = iota
	NorthWest
	SouthWest
	SouthEast
)

// String returns the compass abbreviation of q.
func (q Quadrant) String() string {
	switch q {
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthWest:
		return "SW"
	default:
		return "SE"
	}
}

// QuadrantOf classifies the direction from a to l. Points on an axis,
// including a label sitting exactly on its anchor, fall into SouthEast.
func QuadrantOf(a Anchor, l Label) Quadrant {
	dx := l.X - a.X
	dy := a.Y - l.Y
	switch {
	case dx > 0 && dy > 0:
		return NorthEast
	case dx < 0 && dy > 0:
		return NorthWest
	case dx < 0 && dy < 0:
		return SouthWest
	default:
		return SouthEast
	}
}

// LeaderLength is the distance from the anchor to the label's reference point.
func LeaderLength(a Anchor, l Label) float64 {
	return math.Hypot(l.X-a.X, l.Y-a.Y)
}

// segmentsIntersect reports whether segment (x1,y1)-(x2,y2) meets segment
// (x3,y3)-(x4,y4). Parallel and collinear segments never intersect.
func segmentsIntersect(x1, y1, x2, y2, x3, y3, x4, y4 float64) bool {
	denom := (y4-y3)*(x2-x1) - (x4-x3)*(y2-y1)
	if denom == 0 {
		return false
	}
	mua := ((x4-x3)*(y1-y3) - (y4-y3)*(x1-x3)) / denom
	mub := ((x2-x1)*(y1-y3) - (y2-y1)*(x1-x3)) / denom
	return mua >= 0 && mua <= 1 && mub >= 0 && mub <= 1
}

// LeadersCross reports whether the leader lines of two anchor/label pairs cross.
func LeadersCross(a1 Anchor, l1 Label, a2 Anchor, l2 Label) bool {
	return segmentsIntersect(a1.X, a1.Y, l1.X, l1.Y, a2.X, a2.Y, l2.X, l2.Y)
}
