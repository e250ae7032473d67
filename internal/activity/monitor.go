package activity

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// LastActive is the shared last-input timestamp. It has a single writer (the
// Monitor) and a single reader (the tracker); last write wins.
type LastActive struct {
	nanos atomic.Int64
}

// NewLastActive creates a timestamp cell initialized to t
func NewLastActive(t time.Time) *LastActive {
	l := &LastActive{}
	l.Touch(t)
	return l
}

// Touch overwrites the timestamp
func (l *LastActive) Touch(t time.Time) {
	l.nanos.Store(t.UnixNano())
}

// Load returns the most recent timestamp
func (l *LastActive) Load() time.Time {
	return time.Unix(0, l.nanos.Load())
}

// Since returns how long ago the last input happened, relative to now
func (l *LastActive) Since(now time.Time) time.Duration {
	return now.Sub(l.Load())
}

// PointerSource delivers pointer movement events
type PointerSource interface {
	WatchPointer(ctx context.Context, onMove func()) error
}

// Monitor stamps LastActive on every pointer movement
type Monitor struct {
	source PointerSource
	last   *LastActive
	now    func() time.Time
	logger *slog.Logger
	events atomic.Int64
}

// NewMonitor creates a monitor writing into last
func NewMonitor(source PointerSource, last *LastActive, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		source: source,
		last:   last,
		now:    time.Now,
		logger: logger,
	}
}

// Run blocks until ctx is done. A failing pointer source is logged and ends
// the monitor without an error so the tracker keeps running; the user is then
// treated as idle once the idle timeout passes.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Debug("input monitor started")

	err := m.source.WatchPointer(ctx, func() {
		m.last.Touch(m.now())
		m.events.Add(1)
	})
	if err != nil && ctx.Err() == nil {
		m.logger.Warn("input monitor stopped", "error", err)
		return nil
	}

	m.logger.Debug("input monitor stopped", "events", m.events.Load())
	return nil
}

// Events returns the number of pointer movements observed
func (m *Monitor) Events() int64 {
	return m.events.Load()
}
