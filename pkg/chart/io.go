package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/leaderline/pkg/errors"
)

// Input formats accepted by [ParseChart].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatOf infers a chart format from a file name. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ReadChart decodes a JSON chart from r. ReadChart does not close r.
func ReadChart(r io.Reader) (*Chart, error) {
	var c Chart
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode chart")
	}
	return &c, nil
}

// ParseChart decodes a chart in the given format.
func ParseChart(data []byte, format string) (*Chart, error) {
	var c Chart
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode chart")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode chart")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format %q", format)
	}
	return &c, nil
}

// ReadChartFile reads a chart from path, choosing the decoder by extension.
func ReadChartFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseChart(data, FormatOf(path))
}

// MarshalPlacement encodes p as indented JSON.
func MarshalPlacement(p *Placement) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode placement: %w", err)
	}
	return data, nil
}

// UnmarshalPlacement decodes a placement produced by [MarshalPlacement].
func UnmarshalPlacement(data []byte) (*Placement, error) {
	var p Placement
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode placement")
	}
	return &p, nil
}

// WritePlacement encodes p as JSON to w.
func WritePlacement(p *Placement, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes p as JSON to path.
func (p *Placement) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlacement(p, f)
}

// ReadPlacementFile reads a placement written by [Placement.WriteFile].
func ReadPlacementFile(path string) (*Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "placement %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalPlacement(data)
}
