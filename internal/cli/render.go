package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// renderCommand creates the render command, which places and visualizes a
// chart in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf renderFlags
		pf placeFlags
		cf cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [chart.json]",
		Short: "Place a chart's labels and render the result",
		Long: `Place a chart's labels and render the result.

Equivalent to 'place' followed by 'visualize'. Both stages are cached, so
re-rendering a chart in another style or format skips the annealing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rf.parse(&opts); err != nil {
				return err
			}
			if err := c.applyConfig(&opts, pf); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, rf.output, cf)
		},
	}

	registerRenderFlags(cmd, &opts, &rf)
	registerPlaceFlags(cmd, &opts, &pf)
	cf.register(cmd)

	return cmd
}

// runRender loads the chart and runs the full pipeline.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, cf cacheFlags) error {
	ch, err := chart.ReadChartFile(input)
	if err != nil {
		return fmt.Errorf("load chart %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d labels...", len(ch.Points)))
	progress := newSweepLogger(loggerFromContext(ctx), spinner, opts.SweepCount())

	opts.Logger = c.Logger
	opts.Observer = progress.observe

	spinner.Start()
	result, err := runner.Execute(ctx, ch, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	progress.done(result.Placement, result.CacheInfo.PlaceHit)

	if _, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printStats(result.Stats.LabelCount, result.Stats.Energy, result.Placement.Overlap(), result.CacheInfo.PlaceHit)
	return nil
}
