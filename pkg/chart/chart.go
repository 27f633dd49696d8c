package chart

import (
	"math"

	"github.com/matzehuels/leaderline/pkg/errors"
)

// MaxPoints bounds the number of points in a chart. Every annealing sweep
// costs time quadratic in the point count.
const MaxPoints = 5000

// Point is an annotated location on a chart.
type Point struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	R    float64 `json:"r,omitempty" yaml:"r,omitempty"`

	// Optional initial label position; both must be set to take effect.
	LabelX *float64 `json:"label_x,omitempty" yaml:"label_x,omitempty"`
	LabelY *float64 `json:"label_y,omitempty" yaml:"label_y,omitempty"`

	// Optional label size; zero means measure the name.
	LabelWidth  float64 `json:"label_width,omitempty" yaml:"label_width,omitempty"`
	LabelHeight float64 `json:"label_height,omitempty" yaml:"label_height,omitempty"`
}

// Chart is the input document of a placement run.
type Chart struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Points []Point `json:"points" yaml:"points"`
}

// Viewport returns the chart size, falling back to the given default for any
// dimension the chart leaves at zero.
func (c *Chart) Viewport(defaultWidth, defaultHeight float64) (float64, float64) {
	w, h := c.Width, c.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

// Validate checks the chart for values the annealer cannot work with.
func (c *Chart) Validate() error {
	if len(c.Points) > MaxPoints {
		return errors.New(errors.ErrCodeInvalidChart, "chart has %d points, at most %d are supported", len(c.Points), MaxPoints)
	}
	if c.Width != 0 {
		if err := errors.ValidateDimension("width", c.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidChart, err, "invalid chart width")
		}
	}
	if c.Height != 0 {
		if err := errors.ValidateDimension("height", c.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidChart, err, "invalid chart height")
		}
	}
	for i, p := range c.Points {
		if err := p.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidChart, err, "point %d (%q)", i, p.Name)
		}
	}
	return nil
}

func (p Point) validate() error {
	if err := errors.ValidateLabelName(p.Name); err != nil {
		return err
	}
	if !finite(p.X) || !finite(p.Y) {
		return errors.New(errors.ErrCodeInvalidChart, "coordinates must be finite")
	}
	if err := errors.ValidateNonNegative("r", p.R); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("label_width", p.LabelWidth); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("label_height", p.LabelHeight); err != nil {
		return err
	}
	if (p.LabelX == nil) != (p.LabelY == nil) {
		return errors.New(errors.ErrCodeInvalidChart, "label_x and label_y must be set together")
	}
	if p.LabelX != nil && (!finite(*p.LabelX) || !finite(*p.LabelY)) {
		return errors.New(errors.ErrCodeInvalidChart, "label position must be finite")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
