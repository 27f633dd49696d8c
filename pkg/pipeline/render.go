package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/observability"
	"github.com/matzehuels/leaderline/pkg/render/dot"
	"github.com/matzehuels/leaderline/pkg/render/sink"
)

// pngScale is the resolution multiplier of PNG output.
const pngScale = 2.0

// RenderPlacement generates output artifacts in the requested formats. The
// context is checked before each format.
func RenderPlacement(ctx context.Context, p *chart.Placement, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Placement()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var artifacts map[string][]byte
	var err error
	if opts.Style == StyleGraphviz {
		artifacts, err = renderGraphviz(ctx, p, opts)
	} else {
		artifacts, err = renderNative(ctx, p, opts)
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// renderNative draws with the built-in SVG writer.
func renderNative(ctx context.Context, p *chart.Placement, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(p, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(p, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(pngScale))
		case FormatPDF:
			data, err = sink.RenderPDF(p, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(p)
		case FormatDOT:
			data = []byte(dot.ToDOT(p))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderGraphviz draws through Graphviz with every node pinned in place.
func renderGraphviz(ctx context.Context, p *chart.Placement, opts Options) (map[string][]byte, error) {
	src := dot.ToDOT(p)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = dot.RenderSVG(src)
		case FormatPNG:
			data, err = dot.RenderPNG(src, pngScale)
		case FormatPDF:
			data, err = dot.RenderPDF(src)
		case FormatJSON:
			data, err = sink.RenderJSON(p)
		case FormatDOT:
			data = []byte(src)
		default:
			return nil, fmt.Errorf("unsupported graphviz format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := sink.StyleFor(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.ShowBoxes {
		svgOpts = append(svgOpts, sink.WithBoxes())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts, nil
}
