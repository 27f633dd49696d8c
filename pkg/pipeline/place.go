package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/observability"
)

// =============================================================================
// Placement
// =============================================================================

// Place anneals the labels of c and returns the resulting placement.
// The run is deterministic for a fixed seed. Unset Sweeps and Seed fall back
// to [DefaultSweeps] and [DefaultSeed]; an explicit zero is honored.
//
// If ctx is cancelled or times out, Place stops within a few moves and
// returns an error; the partial placement is discarded.
func Place(ctx context.Context, c *chart.Chart, opts Options) (*chart.Placement, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return nil, err
	}

	scene, err := c.Prepare(chart.PrepareOptions{
		Width:         opts.Width,
		Height:        opts.Height,
		DefaultRadius: opts.DefaultRadius,
	})
	if err != nil {
		return nil, err
	}

	e := anneal.New(
		anneal.WithBounds(scene.Width, scene.Height),
		anneal.WithWeights(*opts.Weights),
		anneal.WithMaxMove(opts.MaxMove),
		anneal.WithMaxAngle(opts.MaxAngle),
		anneal.WithSchedule(opts.schedule()),
		anneal.WithSeed(opts.RunSeed()),
		anneal.WithObserver(opts.Observer),
	)
	e.SetLabels(scene.Labels).SetAnchors(scene.Anchors)

	opts.Logger.Debug("annealing",
		"labels", len(scene.Labels),
		"sweeps", opts.SweepCount(),
		"schedule", opts.Schedule,
		"viewport", [2]float64{scene.Width, scene.Height})

	hooks := observability.Placement()
	hooks.OnPlaceStart(ctx, len(scene.Labels), opts.SweepCount())
	start := time.Now()
	err = e.StartContext(ctx, opts.SweepCount())
	hooks.OnPlaceComplete(ctx, e.Stats(), time.Since(start), err)
	if err != nil {
		return nil, classifyPlaceError(err)
	}

	return chart.NewPlacement(scene, opts.RunSeed(), opts.SweepCount(), e.TotalEnergy(), e.Stats()), nil
}

// classifyPlaceError maps engine and context errors to error codes.
func classifyPlaceError(err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "placement timed out")
	case stderrors.Is(err, anneal.ErrLengthMismatch):
		return errors.Wrap(errors.ErrCodeLengthMismatch, err, "labels and anchors differ in length")
	default:
		return err
	}
}
