// Package pipeline provides the place → render pipeline for leaderline.
//
// This package implements the steps shared by the CLI and the HTTP API so
// that both resolve defaults, cache results and report errors the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Place: Prepare a chart and anneal its labels into a [chart.Placement]
//  2. Render: Draw the placement in one or more formats (SVG, PNG, PDF, JSON, DOT)
//
// Placement is deterministic for a given chart, seed and option set, so both
// stages are cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Sweeps:  pipeline.Ptr(2000),
//	    Formats: []string{"svg", "json"},
//	    Style:   "boxed",
//	}
//	result, err := runner.Execute(ctx, c, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	p, err := runner.Place(ctx, c, opts)
//	artifacts, err := runner.Render(ctx, p, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/cache"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/config"
	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the viewport width used when neither the chart nor the
	// options give one.
	DefaultWidth = 800.0

	// DefaultHeight is the viewport height used when neither the chart nor
	// the options give one.
	DefaultHeight = 600.0

	// DefaultSweeps is the number of annealing sweeps.
	DefaultSweeps = config.DefaultSweeps

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultCoolingRate is the per-sweep factor of the geometric schedule.
	DefaultCoolingRate = config.DefaultCoolingRate

	// DefaultStyle is the default visual style.
	DefaultStyle = sink.StyleSimple
)

// Schedule names.
const (
	ScheduleLinear    = "linear"
	ScheduleGeometric = "geometric"
)

// StyleGraphviz renders through Graphviz instead of the native SVG writer.
const StyleGraphviz = "graphviz"

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	sink.StyleSimple: true,
	sink.StyleBoxed:  true,
	StyleGraphviz:    true,
}

// ValidSchedules is the set of supported cooling schedules.
var ValidSchedules = map[string]bool{
	ScheduleLinear:    true,
	ScheduleGeometric: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Place options
	Width         float64         `json:"width,omitempty"`
	Height        float64         `json:"height,omitempty"`
	Sweeps        *int            `json:"sweeps,omitempty"`
	Seed          *uint64         `json:"seed,omitempty"`
	MaxMove       float64         `json:"max_move,omitempty"`
	MaxAngle      float64         `json:"max_angle,omitempty"`
	Weights       *anneal.Weights `json:"weights,omitempty"`
	Schedule      string          `json:"schedule,omitempty"`
	CoolingRate   float64         `json:"cooling_rate,omitempty"`
	DefaultRadius float64         `json:"default_radius,omitempty"`
	Refresh       bool            `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	ShowBoxes  bool     `json:"show_boxes,omitempty"`
	Background string   `json:"background,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Observer anneal.Observer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Placement is the annealed label placement.
	Placement *chart.Placement

	// PlacementHash is the content hash of the placement document.
	PlacementHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LabelCount int
	Sweeps     int
	Accepted   int
	Rejected   int
	Energy     float64
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool // Whether the placement came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: simple, boxed, graphviz)", style)
	}
	return nil
}

// ValidateSchedule checks that a cooling schedule is valid.
func ValidateSchedule(schedule string) error {
	if !ValidSchedules[schedule] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid schedule: %q (must be one of: linear, geometric)", schedule)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlace(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetPlaceDefaults sets default values for placement.
func (o *Options) SetPlaceDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Sweeps == nil {
		o.Sweeps = Ptr(DefaultSweeps)
	}
	if o.Seed == nil {
		o.Seed = Ptr(DefaultSeed)
	}
	if o.MaxMove == 0 {
		o.MaxMove = anneal.DefaultMaxMove
	}
	if o.MaxAngle == 0 {
		o.MaxAngle = anneal.DefaultMaxAngle
	}
	if o.Weights == nil {
		w := anneal.DefaultWeights()
		o.Weights = &w
	}
	if o.Schedule == "" {
		o.Schedule = ScheduleLinear
	}
	if o.Schedule == ScheduleGeometric && o.CoolingRate == 0 {
		o.CoolingRate = DefaultCoolingRate
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPlace validates and sets defaults for placement.
func (o *Options) ValidateForPlace() error {
	o.SetPlaceDefaults()

	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if *o.Sweeps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sweeps must not be negative, got %d", *o.Sweeps)
	}
	if err := errors.ValidateDimension("max_move", o.MaxMove); err != nil {
		return err
	}
	if err := errors.ValidateDimension("max_angle", o.MaxAngle); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("default_radius", o.DefaultRadius); err != nil {
		return err
	}
	if err := validateWeights(*o.Weights); err != nil {
		return err
	}
	if err := ValidateSchedule(o.Schedule); err != nil {
		return err
	}
	if o.Schedule == ScheduleGeometric && (o.CoolingRate <= 0 || o.CoolingRate >= 1 || math.IsNaN(o.CoolingRate)) {
		return errors.New(errors.ErrCodeInvalidInput, "cooling_rate must be in (0, 1), got %g", o.CoolingRate)
	}
	return nil
}

func validateWeights(w anneal.Weights) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"weights.length", w.Length},
		{"weights.intersection", w.Intersection},
		{"weights.label_overlap", w.LabelOverlap},
		{"weights.anchor_overlap", w.AnchorOverlap},
		{"weights.orientation", w.Orientation},
	} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// ApplySettings fills every unset option from a settings file.
func (o *Options) ApplySettings(s config.Settings) {
	if o.Width == 0 {
		o.Width = s.Width
	}
	if o.Height == 0 {
		o.Height = s.Height
	}
	if o.Sweeps == nil {
		o.Sweeps = Ptr(s.Sweeps)
	}
	if o.Seed == nil {
		o.Seed = Ptr(s.Seed)
	}
	if o.MaxMove == 0 {
		o.MaxMove = s.MaxMove
	}
	if o.MaxAngle == 0 {
		o.MaxAngle = s.MaxAngle
	}
	if o.Weights == nil {
		w := s.Weights
		o.Weights = &w
	}
	if o.Schedule == "" {
		o.Schedule = s.Schedule
	}
	if o.CoolingRate == 0 {
		o.CoolingRate = s.CoolingRate
	}
	if o.Style == "" {
		o.Style = s.Style
	}
}

// SweepCount returns the number of sweeps to run, or [DefaultSweeps] when
// none is set. An explicit zero is kept.
func (o *Options) SweepCount() int {
	if o.Sweeps == nil {
		return DefaultSweeps
	}
	return *o.Sweeps
}

// RunSeed returns the random seed, or [DefaultSeed] when none is set.
func (o *Options) RunSeed() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// Ptr returns a pointer to v, for filling the optional fields of [Options].
func Ptr[T any](v T) *T { return &v }

// schedule returns the cooling schedule named by the options.
func (o *Options) schedule() anneal.Schedule {
	if o.Schedule == ScheduleGeometric {
		return anneal.GeometricSchedule{Rate: o.CoolingRate}
	}
	return anneal.LinearSchedule{}
}

// PlacementKeyOpts returns cache key options for placement.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	k := cache.PlacementKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		Sweeps:        o.SweepCount(),
		Seed:          o.RunSeed(),
		MaxMove:       o.MaxMove,
		MaxAngle:      o.MaxAngle,
		Schedule:      o.Schedule,
		DefaultRadius: o.DefaultRadius,
	}
	if o.Weights != nil {
		k.Weights = *o.Weights
	}
	if o.Schedule == ScheduleGeometric {
		k.Schedule = fmt.Sprintf("%s:%g", o.Schedule, o.CoolingRate)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		ShowBoxes:  o.ShowBoxes,
		Background: o.Background,
	}
}
