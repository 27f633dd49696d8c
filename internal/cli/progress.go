package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/chart"
)

// heartbeat is the longest gap between two progress log lines.
const heartbeat = 10 * time.Second

// sweepLogger reports annealing progress. Its observe method is installed as
// the engine observer; it logs every tenth of the run at debug level, or
// whenever heartbeat has passed since the last line, and keeps the spinner
// message current.
//
// The logger is not safe for concurrent use; the engine calls the observer
// from the goroutine running the placement.
type sweepLogger struct {
	prog    *progress
	logger  *log.Logger
	spinner *Spinner
	step    int
	lastLog time.Time
}

// newSweepLogger creates a progress reporter for a run of sweeps sweeps.
// spinner may be nil.
func newSweepLogger(logger *log.Logger, spinner *Spinner, sweeps int) *sweepLogger {
	return &sweepLogger{
		prog:    newProgress(logger),
		logger:  logger,
		spinner: spinner,
		step:    max(sweeps/10, 1),
		lastLog: time.Now(),
	}
}

// observe is an [anneal.Observer].
func (s *sweepLogger) observe(info anneal.SweepInfo) {
	if s.spinner != nil {
		s.spinner.SetMessage(fmt.Sprintf("Annealing... %d/%d sweeps", info.Sweep, info.Sweeps))
	}
	if info.Sweep%s.step != 0 && info.Sweep != info.Sweeps && time.Since(s.lastLog) < heartbeat {
		return
	}
	stats := anneal.Stats{Accepted: info.Accepted, Rejected: info.Rejected}
	s.logger.Debugf("Sweep %d/%d: T=%.3f, accepted %.1f%% of %d moves",
		info.Sweep, info.Sweeps, info.Temperature, 100*stats.AcceptanceRate(), stats.Moves())
	s.lastLog = time.Now()
}

// done logs the outcome of the run and warns when labels still overlap.
func (s *sweepLogger) done(p *chart.Placement, cached bool) {
	if cached {
		s.logger.Debugf("Placement loaded from cache")
		return
	}
	s.prog.done(fmt.Sprintf("Placed %d labels: energy %.2f", len(p.Labels), p.Energy))
	s.logger.Debugf("Accepted %d, rejected %d (%.1f%%), final T=%.3f",
		p.Stats.Accepted, p.Stats.Rejected, 100*p.Stats.AcceptanceRate(), p.Stats.Temperature)
	if n := p.Crossings(); n > 0 {
		s.logger.Infof("%d leader lines cross", n)
	}
	if p.Overlap() > 0 {
		s.logger.Warn("Labels still overlap; try more sweeps (--sweeps) or a larger label_overlap weight (--weights)")
	}
}
