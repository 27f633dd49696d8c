package anneal

// Energy scores the placement of label index. Lower is better; only
// differences between two scores of the same label are used, so the scale
// is arbitrary.
type Energy interface {
	Energy(index int, labels []Label, anchors []Anchor) float64
}

// EnergyFunc adapts an ordinary function to the [Energy] interface.
type EnergyFunc func(index int, labels []Label, anchors []Anchor) float64

// Energy calls f(index, labels, anchors).
func (f EnergyFunc) Energy(index int, labels []Label, anchors []Anchor) float64 {
	return f(index, labels, anchors)
}

// WeightedEnergy is the built-in label placement energy.
type WeightedEnergy struct {
	Weights Weights
}

// Energy implements [Energy].
func (w WeightedEnergy) Energy(index int, labels []Label, anchors []Anchor) float64 {
	lab, anc := labels[index], anchors[index]
	var e float64

	if dist := LeaderLength(anc, lab); dist > 0 {
		e += dist * w.Weights.Length
	}
	e += float64(QuadrantOf(anc, lab)) * w.Weights.Orientation

	box := lab.Box()
	for i := range labels {
		if i != index {
			if LeadersCross(anc, lab, anchors[i], labels[i]) {
				e += w.Weights.Intersection
			}
			e += box.Overlap(labels[i].Box()) * w.Weights.LabelOverlap
		}
		e += box.Overlap(anchors[i].Box()) * w.Weights.AnchorOverlap
	}
	return e
}
