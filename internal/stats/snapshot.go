package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// ConsoleSnapshot prints the statistics block to a writer each time a
// session is recorded
type ConsoleSnapshot struct {
	reporter *Reporter
	out      io.Writer
	styles   Styles
	logger   *slog.Logger
}

// NewConsoleSnapshot creates a snapshotter writing to out
func NewConsoleSnapshot(reporter *Reporter, out io.Writer, logger *slog.Logger) *ConsoleSnapshot {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSnapshot{
		reporter: reporter,
		out:      out,
		styles:   NewStyles(out),
		logger:   logger,
	}
}

// Snapshot computes and prints the current statistics. Failures are logged
// and otherwise ignored; a missing log prints nothing.
func (c *ConsoleSnapshot) Snapshot(_ context.Context) {
	stats, err := c.reporter.Calculate()
	if err != nil {
		c.logger.Warn("failed to calculate statistics", "error", err)
		return
	}
	if stats == nil {
		return
	}

	if _, err := fmt.Fprintln(c.out, Render(stats, c.styles)); err != nil {
		c.logger.Warn("failed to print statistics", "error", err)
	}
}
