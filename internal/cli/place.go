package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// placeCommand creates the place command for annealing label positions.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		output string
		cf     cacheFlags
		pf     placeFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "place [chart.json]",
		Short: "Compute label positions for a chart",
		Long: `Compute label positions for a chart.

The place command reads a chart (JSON or YAML) listing the annotated points and
anneals a position for every label. The result is a placement.json file that
can be rendered with 'visualize' or browsed with 'inspect'.

Runs are deterministic for a given chart, options and seed. Results are cached
locally (or in Redis with --redis-url) for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(&opts, pf); err != nil {
				return err
			}
			return c.runPlace(cmd.Context(), args[0], opts, output, cf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.placement.json)")
	cf.register(cmd)
	registerPlaceFlags(cmd, &opts, &pf)

	return cmd
}

// runPlace loads the chart, places its labels and writes the placement.
func (c *CLI) runPlace(ctx context.Context, input string, opts pipeline.Options, output string, cf cacheFlags) error {
	ch, err := chart.ReadChartFile(input)
	if err != nil {
		return fmt.Errorf("load chart %s: %w", input, err)
	}

	p, cacheHit, err := c.place(ctx, ch, opts, cf)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + placementSuffix
	}
	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}
	if err := p.WriteFile(outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Placement complete")
	printFile(outputPath)
	printStats(len(p.Labels), p.Energy, p.Overlap(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// place runs the annealer behind a spinner with progress logging.
func (c *CLI) place(ctx context.Context, ch *chart.Chart, opts pipeline.Options, cf cacheFlags) (*chart.Placement, bool, error) {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return nil, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d labels...", len(ch.Points)))
	progress := newSweepLogger(loggerFromContext(ctx), spinner, opts.SweepCount())

	opts.Logger = c.Logger
	opts.Observer = progress.observe

	spinner.Start()
	p, cacheHit, err := runner.PlaceWithCacheInfo(ctx, ch, opts)
	if err != nil {
		spinner.StopWithError("Placement failed")
		return nil, false, fmt.Errorf("place labels: %w", err)
	}
	spinner.Stop()

	progress.done(p, cacheHit)
	return p, cacheHit, nil
}
