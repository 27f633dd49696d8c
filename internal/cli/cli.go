// Package cli implements the leaderline command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/buildinfo"
	"github.com/matzehuels/leaderline/pkg/cache"
	"github.com/matzehuels/leaderline/pkg/config"
	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "leaderline"

	// redisURLEnv names the environment variable read when --redis-url is unset.
	redisURLEnv = "LEADERLINE_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the settings file named by --config, if any.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Leaderline places chart labels with leader lines",
		Long:          `Leaderline places the labels of annotated chart points so they avoid each other, stay close to their anchors and keep their leader lines from crossing. Placement runs simulated annealing; results render to SVG, PNG, PDF, JSON or Graphviz DOT.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "settings file (.toml, .yaml or .yml)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backing a runner.
type cacheFlags struct {
	noCache  bool
	redisURL string
	scope    string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "cache in Redis instead of the local cache directory (env "+redisURLEnv+")")
	cmd.Flags().StringVar(&f.scope, "cache-scope", "", "namespace for cache keys when several deployments share a cache")
}

// keyer returns the cache keyer for the flags, scoped when --cache-scope is set.
func (f cacheFlags) keyer() cache.Keyer {
	if f.scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, f.scope+":")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, f.keyer(), c.Logger), nil
}

func newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	url := f.redisURL
	if url == "" {
		url = os.Getenv(redisURLEnv)
	}
	if url != "" {
		return cache.NewRedisCache(ctx, url, cache.WithKeyPrefix(appName+":"))
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/leaderline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// placeFlags holds the placement flags shared by place and render.
type placeFlags struct {
	weights string
	sweeps  int
	seed    uint64

	// cmd owns the flags; nil when they were never registered.
	cmd *cobra.Command
}

// registerPlaceFlags binds the placement options to cmd. Unset flags fall
// through to the settings file and then to the pipeline defaults; --sweeps
// and --seed count as set only when given, so an explicit 0 is kept.
func registerPlaceFlags(cmd *cobra.Command, opts *pipeline.Options, f *placeFlags) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width when the chart has none (default 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height when the chart has none (default 600)")
	cmd.Flags().IntVar(&f.sweeps, "sweeps", pipeline.DefaultSweeps, "annealing sweeps; 0 keeps the initial positions")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().Float64Var(&opts.MaxMove, "max-move", 0, "largest translation per move")
	cmd.Flags().Float64Var(&opts.MaxAngle, "max-angle", 0, "largest rotation per move in radians")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cooling schedule: linear (default), geometric")
	cmd.Flags().Float64Var(&opts.CoolingRate, "cooling-rate", 0, "temperature factor per sweep for the geometric schedule")
	cmd.Flags().Float64Var(&opts.DefaultRadius, "radius", 0, "anchor radius for points without one")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached placement exists")
	cmd.Flags().StringVar(&f.weights, "weights", "", "energy weights, e.g. length=0.2,label_overlap=30")
	f.cmd = cmd
}

func (f placeFlags) changed(name string) bool {
	return f.cmd != nil && f.cmd.Flags().Changed(name)
}

// applyConfig overlays the --config settings file and the --weights flag on
// opts. Explicit flags win over the file.
func (c *CLI) applyConfig(opts *pipeline.Options, f placeFlags) error {
	if f.changed("sweeps") {
		opts.Sweeps = pipeline.Ptr(f.sweeps)
	}
	if f.changed("seed") {
		opts.Seed = pipeline.Ptr(f.seed)
	}
	base := anneal.DefaultWeights()
	var settings *config.Settings
	if c.ConfigPath != "" {
		s, err := config.Load(c.ConfigPath)
		if err != nil {
			return err
		}
		settings = &s
		base = s.Weights
	}
	if f.weights != "" {
		w, err := parseWeights(f.weights, base)
		if err != nil {
			return err
		}
		opts.Weights = &w
	}
	if settings != nil {
		opts.ApplySettings(*settings)
		c.Logger.Debugf("Loaded settings from %s", c.ConfigPath)
	}
	return nil
}

// parseWeights overrides fields of base from a comma-separated list of
// name=value pairs.
func parseWeights(s string, base anneal.Weights) (anneal.Weights, error) {
	w := base
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return w, errors.New(errors.ErrCodeInvalidInput, "invalid weight %q (want name=value)", pair)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid value for weight %q", name)
		}
		switch name {
		case "length":
			w.Length = v
		case "intersection":
			w.Intersection = v
		case "label_overlap":
			w.LabelOverlap = v
		case "anchor_overlap":
			w.AnchorOverlap = v
		case "orientation":
			w.Orientation = v
		default:
			return w, errors.New(errors.ErrCodeInvalidInput, "unknown weight %q", name)
		}
	}
	return w, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ErrorMessage formats err for the terminal, preferring the user-facing
// message of structured errors.
func ErrorMessage(err error) string {
	if code := errors.GetCode(err); code != "" {
		return fmt.Sprintf("%s (%s)", errors.UserMessage(err), code)
	}
	return err.Error()
}
