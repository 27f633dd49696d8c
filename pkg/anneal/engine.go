package anneal

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// DefaultMaxMove is the default maximum per-axis translation of one move.
	DefaultMaxMove = 5.0

	// DefaultMaxAngle is the default maximum rotation of one move, in radians.
	DefaultMaxAngle = 0.5

	// InitialTemperature is the temperature of the first sweep.
	InitialTemperature = 1.0
)

// ErrLengthMismatch is returned when a run is started with a different
// number of labels and anchors.
var ErrLengthMismatch = errors.New("label and anchor counts differ")

// SweepInfo describes a completed sweep.
type SweepInfo struct {
	Sweep       int     // 1-based index of the completed sweep
	Sweeps      int     // total sweeps in the run
	Temperature float64 // temperature for the next sweep
	Accepted    int     // accepted moves so far in this run
	Rejected    int     // rejected moves so far in this run
}

// Observer is called after every sweep. It must not modify the labels.
type Observer func(SweepInfo)

// Stats summarises the most recent run.
type Stats struct {
	Sweeps      int     `json:"sweeps"`
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	Temperature float64 `json:"temperature"`
}

// Moves returns the number of proposed moves.
func (s Stats) Moves() int { return s.Accepted + s.Rejected }

// AcceptanceRate returns the fraction of accepted moves, or 0 before any move.
func (s Stats) AcceptanceRate() float64 {
	if s.Moves() == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Moves())
}

// Engine runs simulated annealing over a set of labels and their anchors.
// Labels and anchors correspond by index. The zero value is not usable;
// construct engines with [New].
type Engine struct {
	width, height     float64
	labels            []Label
	anchors           []Anchor
	weights           Weights
	maxMove, maxAngle float64

	energy   Energy
	schedule Schedule
	observer Observer
	rng      *rand.Rand

	stats Stats
}

// Option configures an [Engine].
type Option func(*Engine)

// WithBounds sets the viewport that labels must stay inside.
func WithBounds(width, height float64) Option {
	return func(e *Engine) { e.width, e.height = width, height }
}

// WithWeights installs [WeightedEnergy] with w, replacing any custom energy.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.SetWeights(w) }
}

// WithMaxMove sets the maximum per-axis translation of one move.
func WithMaxMove(d float64) Option { return func(e *Engine) { e.maxMove = d } }

// WithMaxAngle sets the maximum rotation of one move, in radians.
func WithMaxAngle(rad float64) Option { return func(e *Engine) { e.maxAngle = rad } }

// WithEnergy replaces the built-in energy function.
func WithEnergy(en Energy) Option { return func(e *Engine) { e.SetEnergy(en) } }

// WithSchedule replaces the built-in linear cooling schedule.
func WithSchedule(s Schedule) Option { return func(e *Engine) { e.SetSchedule(s) } }

// WithObserver registers a callback that runs after every sweep.
func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

// WithRand sets the random source used for every move.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithSeed seeds a PCG random source, making runs reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// New creates an engine with a 1×1 viewport, default weights and moves, the
// linear schedule and a randomly seeded source, then applies opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		width:    1,
		height:   1,
		weights:  DefaultWeights(),
		maxMove:  DefaultMaxMove,
		maxAngle: DefaultMaxAngle,
		schedule: LinearSchedule{},
	}
	e.energy = WeightedEnergy{Weights: e.weights}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// SetWidth sets the viewport width.
func (e *Engine) SetWidth(w float64) *Engine { e.width = w; return e }

// Width returns the viewport width.
func (e *Engine) Width() float64 { return e.width }

// SetHeight sets the viewport height.
func (e *Engine) SetHeight(h float64) *Engine { e.height = h; return e }

// Height returns the viewport height.
func (e *Engine) Height() float64 { return e.height }

// SetLabels hands labels to the engine. The engine mutates the slice during a
// run; callers must not touch it until the run returns.
func (e *Engine) SetLabels(labels []Label) *Engine { e.labels = labels; return e }

// Labels returns the label slice owned by the engine.
func (e *Engine) Labels() []Label { return e.labels }

// SetAnchors sets the anchors, index-aligned with the labels.
func (e *Engine) SetAnchors(anchors []Anchor) *Engine { e.anchors = anchors; return e }

// Anchors returns the anchors.
func (e *Engine) Anchors() []Anchor { return e.anchors }

// SetWeights installs [WeightedEnergy] with w, replacing any custom energy.
func (e *Engine) SetWeights(w Weights) *Engine {
	e.weights = w
	e.energy = WeightedEnergy{Weights: w}
	return e
}

// Weights returns the weights of the built-in energy.
func (e *Engine) Weights() Weights { return e.weights }

// SetEnergy replaces the energy function. A nil en restores the built-in one.
func (e *Engine) SetEnergy(en Energy) *Engine {
	if en == nil {
		en = WeightedEnergy{Weights: e.weights}
	}
	e.energy = en
	return e
}

// EnergyFunction returns the energy strategy in use.
func (e *Engine) EnergyFunction() Energy { return e.energy }

// SetMaxMove sets the maximum per-axis translation of one move.
func (e *Engine) SetMaxMove(d float64) *Engine { e.maxMove = d; return e }

// MaxMove returns the maximum per-axis translation of one move.
func (e *Engine) MaxMove() float64 { return e.maxMove }

// SetMaxAngle sets the maximum rotation of one move, in radians.
func (e *Engine) SetMaxAngle(rad float64) *Engine { e.maxAngle = rad; return e }

// MaxAngle returns the maximum rotation of one move, in radians.
func (e *Engine) MaxAngle() float64 { return e.maxAngle }

// SetSchedule replaces the cooling schedule. A nil s restores [LinearSchedule].
func (e *Engine) SetSchedule(s Schedule) *Engine {
	if s == nil {
		s = LinearSchedule{}
	}
	e.schedule = s
	return e
}

// Schedule returns the cooling schedule in use.
func (e *Engine) Schedule() Schedule { return e.schedule }

// Energy scores label index with the configured energy function.
func (e *Engine) Energy(index int) float64 {
	return e.energy.Energy(index, e.labels, e.anchors)
}

// TotalEnergy sums the energy of every label.
func (e *Engine) TotalEnergy() float64 {
	var total float64
	for i := range e.labels {
		total += e.Energy(i)
	}
	return total
}

// Stats returns the counters of the most recent run.
func (e *Engine) Stats() Stats { return e.stats }

// Accepted returns the number of accepted moves in the most recent run.
func (e *Engine) Accepted() int { return e.stats.Accepted }

// Rejected returns the number of rejected moves in the most recent run.
func (e *Engine) Rejected() int { return e.stats.Rejected }

// Start runs sweeps sweeps of simulated annealing. It is equivalent to
// StartContext with a background context.
func (e *Engine) Start(sweeps int) error {
	return e.StartContext(context.Background(), sweeps)
}

// cancelCheckMoves is how many moves run between context checks inside a
// sweep. A sweep costs O(n²) energy evaluations, so large charts need
// checks finer than once per sweep.
const cancelCheckMoves = 64

// StartContext runs sweeps sweeps, each made of len(labels) moves, lowering the
// temperature after every sweep. The context is checked every few moves; on
// cancellation the labels and stats are rolled back to the last completed
// sweep and ctx.Err() is returned.
func (e *Engine) StartContext(ctx context.Context, sweeps int) error {
	if len(e.labels) != len(e.anchors) {
		return fmt.Errorf("%w: %d labels, %d anchors", ErrLengthMismatch, len(e.labels), len(e.anchors))
	}

	initial := InitialTemperature
	temp := initial
	e.stats = Stats{Temperature: temp}
	snapshot := make([]Label, len(e.labels))

	for sweep := range sweeps {
		if err := ctx.Err(); err != nil {
			return err
		}
		copy(snapshot, e.labels)
		saved := e.stats

		for move := range len(e.labels) {
			if move > 0 && move%cancelCheckMoves == 0 {
				if err := ctx.Err(); err != nil {
					copy(e.labels, snapshot)
					e.stats = saved
					return err
				}
			}
			if e.rng.Float64() < 0.5 {
				e.translate(temp)
			} else {
				e.rotate(temp)
			}
		}
		temp = e.schedule.Next(temp, initial, sweeps)

		e.stats.Sweeps = sweep + 1
		e.stats.Temperature = temp
		if e.observer != nil {
			e.observer(SweepInfo{
				Sweep:       sweep + 1,
				Sweeps:      sweeps,
				Temperature: temp,
				Accepted:    e.stats.Accepted,
				Rejected:    e.stats.Rejected,
			})
		}
	}
	return nil
}
