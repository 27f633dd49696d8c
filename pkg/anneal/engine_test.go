package anneal

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func twoOverlapping() ([]Label, []Anchor) {
	labels := []Label{
		{X: 95, Y: 100, Width: 30, Height: 10, Name: "a"},
		{X: 95, Y: 100, Width: 30, Height: 10, Name: "b"},
	}
	anchors := []Anchor{
		{X: 90, Y: 100, R: 2},
		{X: 110, Y: 100, R: 2},
	}
	return labels, anchors
}

func scattered(n int, seed uint64) ([]Label, []Anchor) {
	rng := rand.New(rand.NewPCG(seed, seed))
	labels := make([]Label, n)
	anchors := make([]Anchor, n)
	for i := range n {
		ax, ay := rng.Float64()*100, rng.Float64()*100
		anchors[i] = Anchor{X: ax, Y: ay, R: 2}
		labels[i] = Label{X: ax, Y: ay, Width: 20, Height: 8}
	}
	return labels, anchors
}

func overlapTotal(labels []Label) float64 {
	var total float64
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			total += labels[i].Box().Overlap(labels[j].Box())
		}
	}
	return total
}

func TestNewDefaults(t *testing.T) {
	e := New()
	if e.Width() != 1 || e.Height() != 1 {
		t.Errorf("bounds = %vx%v, want 1x1", e.Width(), e.Height())
	}
	if e.Weights() != DefaultWeights() {
		t.Errorf("Weights() = %+v, want defaults", e.Weights())
	}
	if e.maxMove != DefaultMaxMove || e.maxAngle != DefaultMaxAngle {
		t.Errorf("moves = %v/%v, want %v/%v", e.maxMove, e.maxAngle, DefaultMaxMove, DefaultMaxAngle)
	}
	if _, ok := e.schedule.(LinearSchedule); !ok {
		t.Errorf("schedule = %T, want LinearSchedule", e.schedule)
	}
}

func TestSettersChain(t *testing.T) {
	labels, anchors := twoOverlapping()
	e := New().SetWidth(300).SetHeight(200).SetLabels(labels).SetAnchors(anchors)

	if e.Width() != 300 || e.Height() != 200 {
		t.Errorf("bounds = %vx%v, want 300x200", e.Width(), e.Height())
	}
	if len(e.Labels()) != 2 || len(e.Anchors()) != 2 {
		t.Errorf("got %d labels, %d anchors", len(e.Labels()), len(e.Anchors()))
	}
	if &e.Labels()[0] != &labels[0] {
		t.Error("Labels() should return the slice handed to SetLabels")
	}
}

func TestSetEnergyNilRestoresDefault(t *testing.T) {
	e := New(WithEnergy(EnergyFunc(func(int, []Label, []Anchor) float64 { return 7 })))
	e.SetLabels([]Label{{X: 3, Y: -4}}).SetAnchors([]Anchor{{}})
	if got := e.Energy(0); got != 7 {
		t.Fatalf("custom Energy() = %v, want 7", got)
	}

	e.SetEnergy(nil)
	if got := e.Energy(0); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("default Energy() = %v, want 1.0", got)
	}
}

func TestStartLengthMismatch(t *testing.T) {
	e := New(WithSeed(1))
	e.SetLabels(make([]Label, 3)).SetAnchors(make([]Anchor, 2))

	err := e.Start(10)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Start() error = %v, want ErrLengthMismatch", err)
	}
}

func TestStartZeroLabels(t *testing.T) {
	e := New(WithSeed(1))
	if err := e.Start(50); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s := e.Stats(); s.Moves() != 0 || s.Sweeps != 50 {
		t.Errorf("Stats() = %+v, want 50 sweeps and no moves", s)
	}
}

func TestStartZeroSweepsIsNoop(t *testing.T) {
	labels, anchors := twoOverlapping()
	before := slices.Clone(labels)

	e := New(WithBounds(200, 200), WithSeed(7))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !slices.Equal(labels, before) {
		t.Errorf("labels changed: %+v -> %+v", before, labels)
	}
	if e.Accepted()+e.Rejected() != 0 {
		t.Errorf("moves = %d, want 0", e.Accepted()+e.Rejected())
	}
}

func TestStartCounters(t *testing.T) {
	for _, sweeps := range []int{1, 10, 137} {
		labels, anchors := scattered(9, 3)
		e := New(WithBounds(100, 100), WithSeed(11))
		e.SetLabels(labels).SetAnchors(anchors)
		if err := e.Start(sweeps); err != nil {
			t.Fatalf("Start(%d) error = %v", sweeps, err)
		}
		if got, want := e.Accepted()+e.Rejected(), sweeps*len(labels); got != want {
			t.Errorf("Start(%d): accepted+rejected = %d, want %d", sweeps, got, want)
		}
	}
}

func TestCountersResetBetweenRuns(t *testing.T) {
	labels, anchors := scattered(4, 5)
	e := New(WithBounds(100, 100), WithSeed(5))
	e.SetLabels(labels).SetAnchors(anchors)

	_ = e.Start(20)
	_ = e.Start(5)
	if got := e.Stats().Moves(); got != 5*len(labels) {
		t.Errorf("moves after second run = %d, want %d", got, 5*len(labels))
	}
}

func TestBoundaryContainment(t *testing.T) {
	const w, h = 60.0, 40.0
	for seed := range uint64(20) {
		labels := []Label{
			{X: 0, Y: 0, Width: 10, Height: 5},
			{X: w, Y: h, Width: 10, Height: 5},
			{X: w, Y: 0, Width: 10, Height: 5},
			{X: 0, Y: h, Width: 10, Height: 5},
			{X: w / 2, Y: h / 2, Width: 10, Height: 5},
		}
		anchors := []Anchor{
			{X: 1, Y: 1, R: 1},
			{X: w - 1, Y: h - 1, R: 1},
			{X: w - 1, Y: 1, R: 1},
			{X: 1, Y: h - 1, R: 1},
			{X: w / 2, Y: h / 2, R: 1},
		}
		e := New(WithBounds(w, h), WithSeed(seed), WithMaxMove(25), WithMaxAngle(3))
		e.SetLabels(labels).SetAnchors(anchors)
		if err := e.Start(int(seed) * 5); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		for i, l := range labels {
			if l.X < 0 || l.X > w || l.Y < 0 || l.Y > h {
				t.Errorf("seed %d: label %d at (%v,%v) outside %vx%v", seed, i, l.X, l.Y, w, h)
			}
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() []Label {
		labels, anchors := scattered(12, 99)
		e := New(WithBounds(100, 100), WithSeed(42))
		e.SetLabels(labels).SetAnchors(anchors)
		if err := e.Start(100); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		return labels
	}

	a, b := run(), run()
	if !slices.Equal(a, b) {
		t.Error("runs with the same seed produced different labels")
	}
}

func TestRejectedMovesRestorePosition(t *testing.T) {
	labels, anchors := scattered(6, 8)
	before := slices.Clone(labels)

	// Every evaluation is far worse than the previous one, so every move is rejected.
	calls := 0
	rising := EnergyFunc(func(int, []Label, []Anchor) float64 {
		calls++
		return float64(calls) * 1e6
	})

	e := New(WithBounds(100, 100), WithSeed(3), WithEnergy(rising))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(40); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if e.Accepted() != 0 {
		t.Errorf("Accepted() = %d, want 0", e.Accepted())
	}
	for i := range labels {
		if math.Float64bits(labels[i].X) != math.Float64bits(before[i].X) ||
			math.Float64bits(labels[i].Y) != math.Float64bits(before[i].Y) {
			t.Errorf("label %d moved from %+v to %+v", i, before[i], labels[i])
		}
	}
}

func TestConstantEnergyAcceptsEverything(t *testing.T) {
	labels, anchors := scattered(5, 21)
	flat := EnergyFunc(func(int, []Label, []Anchor) float64 { return 1 })

	e := New(WithBounds(100, 100), WithSeed(21), WithEnergy(flat))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(60); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if e.Rejected() != 0 {
		t.Errorf("Rejected() = %d, want 0", e.Rejected())
	}
	if rate := e.Stats().AcceptanceRate(); rate != 1 {
		t.Errorf("AcceptanceRate() = %v, want 1", rate)
	}
}

func TestZeroTemperatureNeverIncreasesEnergy(t *testing.T) {
	// Without pairwise terms each label's energy depends only on itself, so
	// the total changes by exactly the delta of the moved label.
	w := Weights{Length: 0.2, AnchorOverlap: 30, Orientation: 3}
	labels, anchors := scattered(6, 17)
	e := New(WithBounds(100, 100), WithSeed(17), WithWeights(w))
	e.SetLabels(labels).SetAnchors(anchors)

	const cold = 1e-300
	prev := e.TotalEnergy()
	for i := range 2000 {
		if i%2 == 0 {
			e.translate(cold)
		} else {
			e.rotate(cold)
		}
		cur := e.TotalEnergy()
		if cur > prev+1e-9 {
			t.Fatalf("move %d raised energy from %v to %v", i, prev, cur)
		}
		prev = cur
	}
}

func TestTwoOverlappingLabelsSeparate(t *testing.T) {
	labels, anchors := twoOverlapping()
	initial := overlapTotal(labels)

	e := New(WithBounds(200, 200), WithSeed(42))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(200); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := overlapTotal(labels); got > 1.0 {
		t.Errorf("overlap after 200 sweeps = %v (initial %v), want near zero", got, initial)
	}
}

// TestSeed42Baseline pins a recorded run so that any change to the order of
// random draws, the moves or the energy terms shows up as a diff.
func TestSeed42Baseline(t *testing.T) {
	const tol = 1e-6
	labels, anchors := twoOverlapping()

	e := New(WithBounds(200, 200), WithSeed(42))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(200); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	want := []struct{ x, y float64 }{
		{89.80826589845745, 110.29862807702041},
		{110.75567205960004, 88.36971064128159},
	}
	for i, w := range want {
		if math.Abs(labels[i].X-w.x) > tol || math.Abs(labels[i].Y-w.y) > tol {
			t.Errorf("label %d at (%v, %v), want (%v, %v)", i, labels[i].X, labels[i].Y, w.x, w.y)
		}
	}
	if s := e.Stats(); s.Accepted != 271 || s.Rejected != 129 {
		t.Errorf("accepted/rejected = %d/%d, want 271/129", s.Accepted, s.Rejected)
	}
	if got := e.TotalEnergy(); math.Abs(got-10.39104518518974) > tol {
		t.Errorf("TotalEnergy() = %v, want 10.39104518518974", got)
	}
	if got := overlapTotal(labels); got != 0 {
		t.Errorf("overlap = %v, want 0", got)
	}
}

func TestSingleLabelMovesTowardAnchor(t *testing.T) {
	labels := []Label{{X: 60, Y: 50}}
	anchors := []Anchor{{X: 50, Y: 50}}

	e := New(WithBounds(100, 100), WithSeed(9), WithWeights(Weights{Length: 0.2}))
	e.SetLabels(labels).SetAnchors(anchors)
	start := e.TotalEnergy()
	if err := e.Start(1000); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if end := e.TotalEnergy(); end >= start {
		t.Errorf("energy = %v, want below initial %v", end, start)
	}
	if d := LeaderLength(anchors[0], labels[0]); d > 5 {
		t.Errorf("leader length = %v, want < 5", d)
	}
}

func TestStartContextCancelled(t *testing.T) {
	labels, anchors := scattered(5, 1)
	ctx, cancel := context.WithCancel(context.Background())

	e := New(WithBounds(100, 100), WithSeed(1), WithObserver(func(info SweepInfo) {
		if info.Sweep == 3 {
			cancel()
		}
	}))
	e.SetLabels(labels).SetAnchors(anchors)

	err := e.StartContext(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("StartContext() error = %v, want context.Canceled", err)
	}
	if s := e.Stats(); s.Sweeps != 3 || s.Moves() != 3*len(labels) {
		t.Errorf("Stats() = %+v, want 3 completed sweeps", s)
	}
}

func TestStartContextRollsBackPartialSweep(t *testing.T) {
	const n = 200
	labels, anchors := scattered(n, 4)
	ctx, cancel := context.WithCancel(context.Background())

	// Constant energy accepts every move, so each sweep changes the labels.
	calls := 0
	energy := EnergyFunc(func(int, []Label, []Anchor) float64 {
		calls++
		if calls == 2*n+150 {
			cancel()
		}
		return 0
	})

	var afterFirst []Label
	e := New(WithBounds(100, 100), WithSeed(4), WithEnergy(energy), WithObserver(func(info SweepInfo) {
		if info.Sweep == 1 {
			afterFirst = slices.Clone(labels)
		}
	}))
	e.SetLabels(labels).SetAnchors(anchors)

	err := e.StartContext(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("StartContext() error = %v, want context.Canceled", err)
	}
	if s := e.Stats(); s.Sweeps != 1 || s.Moves() != n {
		t.Errorf("Stats() = %+v, want the counters of one completed sweep", s)
	}
	if !slices.Equal(labels, afterFirst) {
		t.Error("labels were not restored to the end of the last completed sweep")
	}
}

func TestStartContextDeadlineLargeChart(t *testing.T) {
	if testing.Short() {
		t.Skip("large chart")
	}
	labels, anchors := scattered(8000, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := New(WithBounds(100, 100), WithSeed(5))
	e.SetLabels(labels).SetAnchors(anchors)

	start := time.Now()
	err := e.StartContext(ctx, 1000)
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("StartContext() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("returned %v after start, want shortly after the 20ms deadline", elapsed)
	}
	if s := e.Stats(); s.Moves() != s.Sweeps*len(labels) {
		t.Errorf("Stats() = %+v, counters include a partial sweep", s)
	}
}

func TestAccessors(t *testing.T) {
	sched := GeometricSchedule{Rate: 0.9}
	en := EnergyFunc(func(int, []Label, []Anchor) float64 { return 1 })

	e := New().SetMaxMove(7).SetMaxAngle(0.25).SetSchedule(sched).SetEnergy(en)

	if e.MaxMove() != 7 || e.MaxAngle() != 0.25 {
		t.Errorf("MaxMove/MaxAngle = %v/%v, want 7/0.25", e.MaxMove(), e.MaxAngle())
	}
	if e.Schedule() != Schedule(sched) {
		t.Errorf("Schedule() = %#v, want %#v", e.Schedule(), sched)
	}
	if got := e.EnergyFunction().Energy(0, nil, nil); got != 1 {
		t.Errorf("EnergyFunction() scored %v, want the installed function", got)
	}

	e.SetSchedule(nil)
	if _, ok := e.Schedule().(LinearSchedule); !ok {
		t.Errorf("SetSchedule(nil) gave %T, want LinearSchedule", e.Schedule())
	}
}

func TestObserverSeesEverySweep(t *testing.T) {
	labels, anchors := scattered(3, 2)
	var seen []SweepInfo

	e := New(WithBounds(100, 100), WithSeed(2), WithObserver(func(info SweepInfo) {
		seen = append(seen, info)
	}))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(4); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if len(seen) != 4 {
		t.Fatalf("observer called %d times, want 4", len(seen))
	}
	wantTemps := []float64{0.75, 0.5, 0.25, 0}
	for i, info := range seen {
		if info.Sweep != i+1 || info.Sweeps != 4 {
			t.Errorf("sweep %d: got %+v", i, info)
		}
		if math.Abs(info.Temperature-wantTemps[i]) > 1e-12 {
			t.Errorf("sweep %d: temperature = %v, want %v", i, info.Temperature, wantTemps[i])
		}
	}
	if last := seen[3]; last.Accepted+last.Rejected != 4*len(labels) {
		t.Errorf("last sweep counters = %+v", last)
	}
}

func TestCustomSchedule(t *testing.T) {
	labels, anchors := scattered(2, 4)
	var calls int
	s := ScheduleFunc(func(current, initial float64, sweeps int) float64 {
		calls++
		if initial != InitialTemperature || sweeps != 7 {
			t.Errorf("schedule got initial=%v sweeps=%d", initial, sweeps)
		}
		return current / 2
	})

	e := New(WithBounds(100, 100), WithSeed(4), WithSchedule(s))
	e.SetLabels(labels).SetAnchors(anchors)
	if err := e.Start(7); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if calls != 7 {
		t.Errorf("schedule called %d times, want 7", calls)
	}
	if got := e.Stats().Temperature; math.Abs(got-1.0/128) > 1e-15 {
		t.Errorf("final temperature = %v, want %v", got, 1.0/128)
	}
}
