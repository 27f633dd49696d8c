package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leaderline/pkg/anneal"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at error level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnPlaceStart(_ context.Context, labels, sweeps int) {
	h.logger.Debug("placement started", "labels", labels, "sweeps", sweeps)
}

func (h *LogHooks) OnPlaceComplete(_ context.Context, stats anneal.Stats, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("placement failed", "err", err, "sweeps", stats.Sweeps, "took", d)
		return
	}
	h.logger.Debug("placement finished",
		"sweeps", stats.Sweeps,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render finished", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PlacementHooks = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
)
