package cache

import "github.com/matzehuels/leaderline/pkg/anneal"

// Keyer derives cache keys from pipeline inputs.
type Keyer interface {
	// PlacementKey returns the key of a placement computed from a chart.
	PlacementKey(chartHash string, opts PlacementKeyOpts) string

	// ArtifactKey returns the key of a rendered placement.
	ArtifactKey(placementHash string, opts ArtifactKeyOpts) string
}

// PlacementKeyOpts lists every option that changes a placement.
type PlacementKeyOpts struct {
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Sweeps        int            `json:"sweeps"`
	Seed          uint64         `json:"seed"`
	MaxMove       float64        `json:"max_move"`
	MaxAngle      float64        `json:"max_angle"`
	Weights       anneal.Weights `json:"weights"`
	Schedule      string         `json:"schedule"`
	DefaultRadius float64        `json:"default_radius"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Style      string `json:"style"`
	ShowBoxes  bool   `json:"show_boxes"`
	Background string `json:"background"`
}

// DefaultKeyer hashes the inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlacementKey generates a key for placement caching.
func (k *DefaultKeyer) PlacementKey(chartHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", chartHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", placementHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
