// Package cli implements the leaderline command-line interface.
//
// The commands place the labels of a chart, render placements and inspect
// them interactively. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - place: Anneal label positions for a chart and write placement JSON
//   - visualize: Render a placement to SVG, PNG, PDF, JSON or DOT
//   - render: Place and visualize in one step
//   - inspect: Browse the labels of a placement in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the placement and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes periodic annealing progress. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/leaderline/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx, os.Args[1:], os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with "15:04:05.00" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a step with its wall time, e.g.
// "Placed 42 labels (1.234s)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for the command's RunE.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, falling back
// to log.Default() so tests calling commands directly still log.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
