// Package anneal places text labels next to the points they annotate.
//
// The placement is found with simulated annealing: every label is attached
// to an [Anchor] by a leader line, and the [Engine] repeatedly perturbs one
// label at a time, either translating it or rotating it about its anchor.
// Each perturbation is scored with an [Energy] function and accepted or
// rejected with the Metropolis rule, so worse placements are sometimes
// accepted while the temperature is high and almost never once it has
// cooled down.
//
// # Energy
//
// The built-in [WeightedEnergy] penalises, for a single label:
//
//   - the length of its leader line
//   - placements that are not north-east of the anchor (NE < NW < SW < SE)
//   - leader lines crossing other leader lines
//   - overlap with other labels
//   - overlap with any anchor's exclusion square
//
// The relative cost of each term is set by [Weights]. Callers can replace the
// whole function with [EnergyFunc].
//
// # Schedule
//
// Temperature starts at 1.0 and is lowered once per sweep. A sweep performs
// as many moves as there are labels, each move picking its label uniformly at
// random. The default [LinearSchedule] reaches zero after the requested number
// of sweeps; [GeometricSchedule] and [ScheduleFunc] are alternatives.
//
// # Usage
//
//	labels := []anneal.Label{{X: 12, Y: 40, Width: 48, Height: 14, Name: "alpha"}}
//	anchors := []anneal.Anchor{{X: 10, Y: 42, R: 3}}
//
//	e := anneal.New(anneal.WithBounds(400, 300), anneal.WithSeed(42))
//	e.SetLabels(labels).SetAnchors(anchors)
//	if err := e.Start(200); err != nil {
//	    return err
//	}
//	// labels now hold the final positions
//
// The engine mutates the label slice in place and is not safe for concurrent
// use. Runs are reproducible when the engine is built with [WithSeed] or
// [WithRand].
package anneal
