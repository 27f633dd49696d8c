package sink

import (
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the placement as PNG via SVG conversion.
func RenderPNG(p *chart.Placement, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(RenderSVG(p, r.svgOpts...), r.scale)
}

// RenderPDF renders the placement as PDF via SVG conversion.
func RenderPDF(p *chart.Placement, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(p, opts...))
}

// RenderJSON encodes the placement document.
func RenderJSON(p *chart.Placement) ([]byte, error) {
	return chart.MarshalPlacement(p)
}
