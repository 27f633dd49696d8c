package chart

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/errors"
)

// DefaultPadding is the space added around measured label text.
const DefaultPadding = 2.0

// PrepareOptions controls how a chart becomes a [Scene].
type PrepareOptions struct {
	// Viewport used for dimensions the chart leaves at zero.
	Width, Height float64

	// Radius given to points without one.
	DefaultRadius float64

	// Padding added on every side of measured text. Zero uses DefaultPadding;
	// use a negative value for no padding.
	Padding float64

	// Face measures label names. Nil uses basicfont.Face7x13.
	Face font.Face
}

// Scene is a chart resolved into the annealer's inputs. Labels[i] annotates
// Anchors[i].
type Scene struct {
	Title   string
	Width   float64
	Height  float64
	Labels  []anneal.Label
	Anchors []anneal.Anchor
}

// Prepare validates the chart and builds the initial scene. Labels without an
// explicit position start at the north-east corner of their anchor's
// exclusion square, clamped to the viewport.
func (c *Chart) Prepare(opts PrepareOptions) (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	w, h := c.Viewport(opts.Width, opts.Height)
	if err := errors.ValidateDimension("width", w); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("height", h); err != nil {
		return nil, err
	}

	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	pad := opts.Padding
	switch {
	case pad == 0:
		pad = DefaultPadding
	case pad < 0:
		pad = 0
	}

	s := &Scene{
		Title:   c.Title,
		Width:   w,
		Height:  h,
		Labels:  make([]anneal.Label, len(c.Points)),
		Anchors: make([]anneal.Anchor, len(c.Points)),
	}
	for i, p := range c.Points {
		if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
			return nil, errors.New(errors.ErrCodeInvalidChart,
				"point %d (%q) at (%g, %g) lies outside the %gx%g viewport", i, p.Name, p.X, p.Y, w, h)
		}

		r := p.R
		if r == 0 {
			r = opts.DefaultRadius
		}
		s.Anchors[i] = anneal.Anchor{X: p.X, Y: p.Y, R: r}

		lw, lh := p.LabelWidth, p.LabelHeight
		if lw == 0 || lh == 0 {
			mw, mh := MeasureLabel(face, p.Name, pad)
			if lw == 0 {
				lw = mw
			}
			if lh == 0 {
				lh = mh
			}
		}

		lx, ly := p.X+r, p.Y-r
		if p.LabelX != nil {
			lx, ly = *p.LabelX, *p.LabelY
		}
		s.Labels[i] = anneal.Label{
			X:      clamp(lx, 0, w),
			Y:      clamp(ly, 0, h),
			Width:  lw,
			Height: lh,
			Name:   p.Name,
		}
	}
	return s, nil
}

// MeasureLabel returns the box size needed to draw text in face with pad on
// every side.
func MeasureLabel(face font.Face, text string, pad float64) (width, height float64) {
	adv := font.MeasureString(face, text).Ceil()
	lineHeight := face.Metrics().Height.Ceil()
	return float64(adv) + 2*pad, float64(lineHeight) + 2*pad
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
