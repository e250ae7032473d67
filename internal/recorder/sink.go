// Package recorder persists completed sessions.
package recorder

import (
	"context"
	"errors"
	"sync"

	"worktrack/internal/models"
)

// Sink stores completed session records
type Sink interface {
	Append(ctx context.Context, rec models.SessionRecord) error
}

// Multi fans every record out to all sinks, in order. All sinks are attempted
// even when an earlier one fails; the failures are joined.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Append(ctx context.Context, rec models.SessionRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps records in memory. It is used by tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	records []models.SessionRecord
}

// Append stores rec
func (m *Memory) Append(_ context.Context, rec models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of everything appended so far
func (m *Memory) Records() []models.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SessionRecord, len(m.records))
	copy(out, m.records)
	return out
}
