package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leaderline/pkg/cache"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/observability"
)

// Runner runs the pipeline stages behind a cache. The CLI and the HTTP API
// both go through a Runner.
//
// A Runner keeps no per-run state, so one Runner may serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, c *chart.Chart, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Place
	placeStart := time.Now()
	p, placeHit, err := r.PlaceWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Placement = p
	result.Stats.PlaceTime = time.Since(placeStart)
	result.Stats.LabelCount = len(p.Labels)
	result.Stats.Sweeps = p.Stats.Sweeps
	result.Stats.Accepted = p.Stats.Accepted
	result.Stats.Rejected = p.Stats.Rejected
	result.Stats.Energy = p.Energy
	result.CacheInfo.PlaceHit = placeHit

	if data, err := chart.MarshalPlacement(p); err == nil {
		result.PlacementHash = cache.Hash(data)
	}

	r.Logger.Info("placed labels",
		"labels", len(p.Labels),
		"energy", p.Energy,
		"cached", placeHit,
		"duration", result.Stats.PlaceTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlaceWithCacheInfo anneals a chart with caching and returns cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, c *chart.Chart, opts Options) (*chart.Placement, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlace(); err != nil {
		return nil, false, err
	}

	chartData, err := json.Marshal(c)
	if err != nil {
		return nil, false, fmt.Errorf("serialize chart for cache key: %w", err)
	}
	key := r.Keyer.PlacementKey(cache.Hash(chartData), opts.PlacementKeyOpts())

	if !opts.Refresh {
		if p, ok := r.cachedPlacement(ctx, key); ok {
			return p, true, nil
		}
	}

	p, err := Place(ctx, c, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := chart.MarshalPlacement(p); err == nil {
		r.store(ctx, "placement", key, data, cache.PlacementTTL)
	}
	return p, false, nil
}

// cachedPlacement returns the placement stored under key. Entries that no
// longer decode count as misses and get overwritten by the next run.
func (r *Runner) cachedPlacement(ctx context.Context, key string) (*chart.Placement, bool) {
	hooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if p, err := chart.UnmarshalPlacement(data); err == nil {
			hooks.OnCacheHit(ctx, "placement")
			return p, true
		}
	}
	hooks.OnCacheMiss(ctx, "placement")
	return nil, false
}

// store writes data under key. A failed write only costs the next run a
// recomputation, so it is logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, c *chart.Chart, opts Options) (*chart.Placement, error) {
	p, _, err := r.PlaceWithCacheInfo(ctx, c, opts)
	return p, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *chart.Placement, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	placementData, err := chart.MarshalPlacement(p)
	if err != nil {
		return nil, false, fmt.Errorf("serialize placement for cache key: %w", err)
	}
	placementHash := cache.Hash(placementData)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(placementHash, opts.ArtifactKeyOpts(format))
	}

	if artifacts, ok := r.cachedArtifacts(ctx, opts.Formats, keyFor); ok {
		return artifacts, true, nil
	}

	rendered, err := RenderPlacement(ctx, p, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.store(ctx, "artifact", keyFor(format), data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// cachedArtifacts succeeds only when every requested format is cached; a
// partial hit re-renders all of them.
func (r *Runner) cachedArtifacts(ctx context.Context, formats []string, keyFor func(string) string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, hit, err := r.Cache.Get(ctx, keyFor(format))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[format] = data
	}
	hooks.OnCacheHit(ctx, "artifact")
	return artifacts, true
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, p *chart.Placement, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, p, opts)
	return artifacts, err
}

// Close closes the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
