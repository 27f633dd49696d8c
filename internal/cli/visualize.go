package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// renderFlags holds the flags shared by visualize and render.
type renderFlags struct {
	formats string
	output  string
}

// registerRenderFlags binds the render options to cmd.
func registerRenderFlags(cmd *cobra.Command, opts *pipeline.Options, f *renderFlags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), boxed, graphviz")
	cmd.Flags().BoolVar(&opts.ShowBoxes, "boxes", false, "outline label and anchor collision boxes")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default transparent)")
}

// parse fills the render options from the flags and validates them.
func (f renderFlags) parse(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if opts.Style == "" {
		return nil
	}
	return pipeline.ValidateStyle(opts.Style)
}

// visualizeCommand creates the visualize command for rendering a placement.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rf renderFlags
		cf cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [placement.json]",
		Short: "Render a computed placement",
		Long: `Render a computed placement.

The visualize command takes a placement.json file (produced by 'place') and
renders it to SVG, PNG, PDF, JSON or Graphviz DOT. The placement holds every
label position, so this step is purely about rendering.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from a chart to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rf.parse(&opts); err != nil {
				return err
			}
			if err := c.applyConfig(&opts, placeFlags{}); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, rf.output, cf)
		},
	}

	registerRenderFlags(cmd, &opts, &rf)
	cf.register(cmd)

	return cmd
}

// runVisualize loads the placement and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, cf cacheFlags) error {
	p, err := chart.ReadPlacementFile(input)
	if err != nil {
		return fmt.Errorf("load placement %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d labels...", len(p.Labels)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
	return err
}
