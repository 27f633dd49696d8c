package anneal

import "math"

// Metropolis decides whether a move changing the energy by delta is accepted
// at temperature temp, given a uniform draw u in [0, 1). Moves that do not
// raise the energy are always accepted. Worsening moves are accepted with
// probability exp(-delta/temp), and never when temp is not positive or delta
// is NaN.
func Metropolis(delta, temp, u float64) bool {
	if delta <= 0 {
		return true
	}
	if temp <= 0 || math.IsNaN(delta) {
		return false
	}
	return u < math.Exp(-delta/temp)
}

// translate shifts a random label by up to maxMove/2 on each axis.
func (e *Engine) translate(temp float64) {
	i := e.rng.IntN(len(e.labels))
	lab := &e.labels[i]
	oldX, oldY := lab.X, lab.Y
	before := e.Energy(i)

	lab.X += (e.rng.Float64() - 0.5) * e.maxMove
	lab.Y += (e.rng.Float64() - 0.5) * e.maxMove
	e.keepInside(lab, oldX, oldY)

	e.settle(i, before, oldX, oldY, temp)
}

// rotate turns a random label about its anchor by up to maxAngle/2.
func (e *Engine) rotate(temp float64) {
	i := e.rng.IntN(len(e.labels))
	lab := &e.labels[i]
	anc := e.anchors[i]
	oldX, oldY := lab.X, lab.Y
	before := e.Energy(i)

	angle := (e.rng.Float64() - 0.5) * e.maxAngle
	s, c := math.Sincos(angle)
	rx, ry := lab.X-anc.X, lab.Y-anc.Y
	lab.X = rx*c - ry*s + anc.X
	lab.Y = rx*s + ry*c + anc.Y
	e.keepInside(lab, oldX, oldY)

	e.settle(i, before, oldX, oldY, temp)
}

// keepInside reverts each axis of lab that left the viewport.
func (e *Engine) keepInside(lab *Label, oldX, oldY float64) {
	if lab.X > e.width || lab.X < 0 {
		lab.X = oldX
	}
	if lab.Y > e.height || lab.Y < 0 {
		lab.Y = oldY
	}
}

// settle applies the Metropolis rule to the move of label i, restoring its
// previous position on rejection.
func (e *Engine) settle(i int, before, oldX, oldY, temp float64) {
	delta := e.Energy(i) - before
	if Metropolis(delta, temp, e.rng.Float64()) {
		e.stats.Accepted++
		return
	}
	e.labels[i].X, e.labels[i].Y = oldX, oldY
	e.stats.Rejected++
}
