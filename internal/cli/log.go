// Package cli implements the mutdom command-line interface.
//
// The analyze command reads a kill matrix and prints the dominator mutants;
// render redraws a saved layout; browse opens an interactive table of
// kill-set groups; serve runs the web service. Cache and config subcommands
// manage local state.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Diagnostic
// logs go to stderr through charmbracelet/log; results are printed to stdout
// with the lipgloss printers in ui.go.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of a stage when it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Parsed kills.csv: 42 mutants (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
