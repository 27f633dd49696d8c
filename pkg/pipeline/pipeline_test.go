package pipeline

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/cache"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/config"
	"github.com/matzehuels/leaderline/pkg/errors"
)

func testChart() *chart.Chart {
	return &chart.Chart{
		Title:  "cities",
		Width:  300,
		Height: 200,
		Points: []chart.Point{
			{Name: "Berlin", X: 100, Y: 80, R: 3},
			{Name: "Potsdam", X: 104, Y: 84, R: 3},
			{Name: "Leipzig", X: 180, Y: 150, R: 3},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"boxed", false},
		{"graphviz", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateSchedule(t *testing.T) {
	for _, s := range []string{"linear", "geometric"} {
		if err := ValidateSchedule(s); err != nil {
			t.Errorf("ValidateSchedule(%q) error = %v", s, err)
		}
	}
	if err := ValidateSchedule("exponential"); err == nil {
		t.Error("ValidateSchedule(exponential) should fail")
	}
}

func TestSetPlaceDefaults(t *testing.T) {
	var opts Options
	opts.SetPlaceDefaults()

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v", opts.Width, opts.Height)
	}
	if *opts.Sweeps != DefaultSweeps {
		t.Errorf("Sweeps = %d, want %d", *opts.Sweeps, DefaultSweeps)
	}
	if *opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", *opts.Seed, DefaultSeed)
	}
	if opts.MaxMove != anneal.DefaultMaxMove || opts.MaxAngle != anneal.DefaultMaxAngle {
		t.Errorf("moves = %v, %v", opts.MaxMove, opts.MaxAngle)
	}
	if opts.Weights == nil || *opts.Weights != anneal.DefaultWeights() {
		t.Errorf("Weights = %v", opts.Weights)
	}
	if opts.Schedule != ScheduleLinear {
		t.Errorf("Schedule = %q", opts.Schedule)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetPlaceDefaultsGeometricRate(t *testing.T) {
	opts := Options{Schedule: ScheduleGeometric}
	opts.SetPlaceDefaults()
	if opts.CoolingRate != DefaultCoolingRate {
		t.Errorf("CoolingRate = %v, want %v", opts.CoolingRate, DefaultCoolingRate)
	}
}

func TestValidateForPlace(t *testing.T) {
	negative := anneal.DefaultWeights()
	negative.Orientation = -1

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative sweeps", Options{Sweeps: Ptr(-1)}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Width: -5}, errors.ErrCodeInvalidInput},
		{"negative max move", Options{MaxMove: -1}, errors.ErrCodeInvalidInput},
		{"negative radius", Options{DefaultRadius: -1}, errors.ErrCodeInvalidInput},
		{"negative weight", Options{Weights: &negative}, errors.ErrCodeInvalidInput},
		{"unknown schedule", Options{Schedule: "cubic"}, errors.ErrCodeInvalidInput},
		{"cooling rate too large", Options{Schedule: ScheduleGeometric, CoolingRate: 1.5}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForPlace()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}

	var ok Options
	if err := ok.ValidateForPlace(); err != nil {
		t.Errorf("zero options should validate: %v", err)
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Style = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestApplySettings(t *testing.T) {
	s := config.Default()
	s.Sweeps = 50
	s.Seed = 9
	s.Style = "boxed"
	s.Schedule = ScheduleGeometric
	s.CoolingRate = 0.9
	s.Weights.Length = 3

	opts := Options{Seed: Ptr[uint64](7)}
	opts.ApplySettings(s)

	if *opts.Sweeps != 50 {
		t.Errorf("Sweeps = %d, want 50", *opts.Sweeps)
	}
	if *opts.Seed != 7 {
		t.Errorf("explicit Seed overwritten: %d", *opts.Seed)
	}
	if opts.Style != "boxed" {
		t.Errorf("Style = %q", opts.Style)
	}
	if opts.Schedule != ScheduleGeometric || opts.CoolingRate != 0.9 {
		t.Errorf("schedule = %q rate %v, want geometric 0.9 from settings", opts.Schedule, opts.CoolingRate)
	}
	if opts.Weights == nil || opts.Weights.Length != 3 {
		t.Errorf("Weights = %v", opts.Weights)
	}
}

func TestPlacementKeyOpts(t *testing.T) {
	a := Options{Schedule: ScheduleGeometric, CoolingRate: 0.9}
	b := Options{Schedule: ScheduleGeometric, CoolingRate: 0.99}
	a.SetPlaceDefaults()
	b.SetPlaceDefaults()

	keyer := cache.NewDefaultKeyer()
	if keyer.PlacementKey("h", a.PlacementKeyOpts()) == keyer.PlacementKey("h", b.PlacementKeyOpts()) {
		t.Error("cooling rate should change the placement key")
	}
}

func TestPlaceDeterministic(t *testing.T) {
	opts := Options{Sweeps: Ptr(50), Seed: Ptr[uint64](3)}

	p1, err := Place(context.Background(), testChart(), opts)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	p2, err := Place(context.Background(), testChart(), opts)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Error("same seed produced different placements")
	}

	if len(p1.Labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(p1.Labels))
	}
	if p1.Width != 300 || p1.Height != 200 {
		t.Errorf("viewport = %vx%v, want the chart's 300x200", p1.Width, p1.Height)
	}
	if p1.Stats.Sweeps != 50 || p1.Stats.Moves() != 150 {
		t.Errorf("stats = %+v", p1.Stats)
	}
	for _, l := range p1.Labels {
		if l.X < 0 || l.X > 300 || l.Y < 0 || l.Y > 200 {
			t.Errorf("label %q left the viewport: (%v, %v)", l.Name, l.X, l.Y)
		}
	}
}

func TestPlaceExplicitZero(t *testing.T) {
	p, err := Place(context.Background(), testChart(), Options{Sweeps: Ptr(0), Seed: Ptr[uint64](0)})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if p.Sweeps != 0 || p.Seed != 0 || p.Stats.Moves() != 0 {
		t.Errorf("placement sweeps=%d seed=%d moves=%d, want an explicit zero run", p.Sweeps, p.Seed, p.Stats.Moves())
	}

	unset := Options{}
	if unset.SweepCount() != DefaultSweeps || unset.RunSeed() != DefaultSeed {
		t.Errorf("unset options = %d sweeps, seed %d, want defaults", unset.SweepCount(), unset.RunSeed())
	}
	zero := Options{Sweeps: Ptr(0)}
	if zero.PlacementKeyOpts() == unset.PlacementKeyOpts() {
		t.Error("explicit zero sweeps should not share a cache key with the default")
	}
}

func TestPlaceObserver(t *testing.T) {
	var sweeps int
	opts := Options{Sweeps: Ptr(10), Observer: func(anneal.SweepInfo) { sweeps++ }}
	if _, err := Place(context.Background(), testChart(), opts); err != nil {
		t.Fatal(err)
	}
	if sweeps != 10 {
		t.Errorf("observer called %d times, want 10", sweeps)
	}
}

func TestPlaceErrors(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Place(ctx, testChart(), Options{Sweeps: Ptr(10)})
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		_, err := Place(ctx, testChart(), Options{Sweeps: Ptr(10)})
		if !errors.Is(err, errors.ErrCodeTimeout) {
			t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeTimeout)
		}
	})

	t.Run("point outside viewport", func(t *testing.T) {
		c := testChart()
		c.Points = append(c.Points, chart.Point{Name: "far", X: 1000, Y: 10})
		_, err := Place(context.Background(), c, Options{})
		if !errors.Is(err, errors.ErrCodeInvalidChart) {
			t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidChart)
		}
	})
}

func TestClassifyPlaceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Code
	}{
		{"deadline", context.DeadlineExceeded, errors.ErrCodeTimeout},
		{"length mismatch", anneal.ErrLengthMismatch, errors.ErrCodeLengthMismatch},
		{"other", stderrors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetCode(classifyPlaceError(tt.err)); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPlacement(t *testing.T) {
	p, err := Place(context.Background(), testChart(), Options{Sweeps: Ptr(20)})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := RenderPlacement(context.Background(), p, Options{
		Formats:   []string{FormatSVG, FormatJSON, FormatDOT},
		Style:     "boxed",
		ShowBoxes: true,
	})
	if err != nil {
		t.Fatalf("RenderPlacement() error: %v", err)
	}

	if svg := string(artifacts[FormatSVG]); !strings.Contains(svg, "label-box") || !strings.Contains(svg, "collision-boxes") {
		t.Error("boxed SVG should draw label boxes and collision boxes")
	}
	if _, err := chart.UnmarshalPlacement(artifacts[FormatJSON]); err != nil {
		t.Errorf("JSON artifact does not parse: %v", err)
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "graph leaderline") {
		t.Error("DOT artifact missing graph header")
	}
}

func TestRenderPlacementGraphviz(t *testing.T) {
	p, err := Place(context.Background(), testChart(), Options{Sweeps: Ptr(5)})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := RenderPlacement(context.Background(), p, Options{
		Formats: []string{FormatSVG},
		Style:   StyleGraphviz,
	})
	if err != nil {
		t.Fatalf("RenderPlacement() error: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Error("graphviz SVG missing <svg> tag")
	}
}

func TestRenderPlacementCanceled(t *testing.T) {
	p, err := Place(context.Background(), testChart(), Options{Sweeps: Ptr(5)})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, style := range []string{"", StyleGraphviz} {
		t.Run("style="+style, func(t *testing.T) {
			_, err := RenderPlacement(ctx, p, Options{Formats: []string{FormatSVG}, Style: style})
			if !stderrors.Is(err, context.Canceled) {
				t.Errorf("RenderPlacement() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestRunnerPlaceCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Sweeps: Ptr(20)}

	p1, hit, err := r.PlaceWithCacheInfo(ctx, testChart(), opts)
	if err != nil || hit {
		t.Fatalf("first run: hit=%v err=%v", hit, err)
	}
	p2, hit, err := r.PlaceWithCacheInfo(ctx, testChart(), opts)
	if err != nil || !hit {
		t.Fatalf("second run: hit=%v err=%v", hit, err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Error("cached placement differs from computed one")
	}

	opts.Refresh = true
	if _, hit, _ := r.PlaceWithCacheInfo(ctx, testChart(), opts); hit {
		t.Error("Refresh should bypass the cache")
	}

	opts = Options{Sweeps: Ptr(20), Seed: Ptr[uint64](8)}
	if _, hit, _ := r.PlaceWithCacheInfo(ctx, testChart(), opts); hit {
		t.Error("a different seed should miss the cache")
	}
}

func TestRunnerRenderCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	p, err := r.Place(ctx, testChart(), Options{Sweeps: Ptr(5)})
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Formats: []string{FormatSVG, FormatDOT}}

	first, hit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached artifacts differ")
	}

	opts.Style = "boxed"
	if _, hit, _ := r.RenderWithCacheInfo(ctx, p, opts); hit {
		t.Error("a different style should miss the cache")
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), testChart(), Options{
		Sweeps:  Ptr(10),
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Placement == nil || len(result.Placement.Labels) != 3 {
		t.Fatalf("placement = %+v", result.Placement)
	}
	if result.PlacementHash == "" {
		t.Error("PlacementHash not set")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if result.Stats.LabelCount != 3 || result.Stats.Sweeps != 10 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.CacheInfo.PlaceHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), testChart(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}
