// Package config loads leaderline settings files.
//
// A settings file tunes the annealer and the default render options so that
// a team can share one configuration between the CLI and the HTTP server.
// Files may be written in TOML or YAML; the format is chosen by extension:
//
//	# leaderline.toml
//	sweeps = 2000
//	seed   = 7
//	style  = "boxed"
//	schedule     = "geometric"
//	cooling_rate = 0.99
//
//	[weights]
//	length        = 0.2
//	intersection  = 1
//	label_overlap = 30
//
// Keys missing from the file keep their [Default] values.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/errors"
)

// Format identifies a settings file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const (
	// DefaultSweeps is the number of annealing sweeps used when none is configured.
	DefaultSweeps = 1000

	// DefaultCoolingRate is the per-sweep factor of the geometric schedule.
	DefaultCoolingRate = 0.995
)

// Settings holds the tunable parameters of a placement run.
type Settings struct {
	Sweeps   int            `toml:"sweeps" yaml:"sweeps"`
	Seed     uint64         `toml:"seed" yaml:"seed"`
	MaxMove  float64        `toml:"max_move" yaml:"max_move"`
	MaxAngle float64        `toml:"max_angle" yaml:"max_angle"`
	Weights  anneal.Weights `toml:"weights" yaml:"weights"`

	// Cooling schedule: "linear" or "geometric". CoolingRate applies to the
	// geometric schedule only.
	Schedule    string  `toml:"schedule" yaml:"schedule"`
	CoolingRate float64 `toml:"cooling_rate" yaml:"cooling_rate"`

	// Viewport used when a chart does not declare its own size.
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`

	Style string `toml:"style" yaml:"style"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Sweeps:   DefaultSweeps,
		Seed:     42,
		MaxMove:  anneal.DefaultMaxMove,
		MaxAngle: anneal.DefaultMaxAngle,
		Weights:  anneal.DefaultWeights(),

		Schedule:    "linear",
		CoolingRate: DefaultCoolingRate,

		Width:  800,
		Height: 600,
		Style:  "simple",
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.Sweeps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sweeps must not be negative, got %d", s.Sweeps)
	}
	if s.Schedule != "linear" && s.Schedule != "geometric" {
		return errors.New(errors.ErrCodeInvalidConfig, "schedule must be linear or geometric, got %q", s.Schedule)
	}
	if !(s.CoolingRate > 0 && s.CoolingRate < 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "cooling_rate must be in (0, 1), got %g", s.CoolingRate)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"max_move", s.MaxMove},
		{"max_angle", s.MaxAngle},
		{"weights.length", s.Weights.Length},
		{"weights.intersection", s.Weights.Intersection},
		{"weights.label_overlap", s.Weights.LabelOverlap},
		{"weights.anchor_overlap", s.Weights.AnchorOverlap},
		{"weights.orientation", s.Weights.Orientation},
	}
	for _, c := range checks {
		if err := errors.ValidateNonNegative(c.name, c.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", c.name)
		}
	}
	if err := errors.ValidateDimension("width", s.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid width")
	}
	if err := errors.ValidateDimension("height", s.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid height")
	}
	return nil
}

// FormatOf infers the settings format from a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported config file %q (want .toml, .yaml or .yml)", path)
}

// Load reads and validates a settings file on top of [Default].
func Load(path string) (Settings, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes data on top of [Default] and validates the result.
func Parse(data []byte, format Format) (Settings, error) {
	s := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		return Settings{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
	}
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Encode writes s in the given format.
func Encode(s Settings, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(s)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
}
