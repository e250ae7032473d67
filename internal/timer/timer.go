// Package timer implements the session timer: a two-state start/pause
// machine that accumulates active time across sessions.
package timer

import (
	"sync"
	"time"
)

// Timer accumulates elapsed time across start/pause pairs.
// All methods are safe for concurrent use.
type Timer struct {
	mu           sync.Mutex
	running      bool
	accumulated  time.Duration
	sessionStart time.Time

	now     func() time.Time
	onPause func(elapsed time.Duration)
}

// Option configures a Timer
type Option func(*Timer)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// WithPauseHook registers fn to be called after every Active to Idle
// transition. fn runs outside the timer lock.
func WithPauseHook(fn func(elapsed time.Duration)) Option {
	return func(t *Timer) {
		t.onPause = fn
	}
}

// New creates an idle timer
func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a session. It reports whether the timer transitioned from
// idle to active; calling Start on a running timer is a no-op.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}
	t.running = true
	t.sessionStart = t.now()
	return true
}

// Pause ends the current session and returns its length. It returns zero
// when the timer is already idle.
func (t *Timer) Pause() time.Duration {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return 0
	}

	elapsed := t.now().Sub(t.sessionStart)
	if elapsed < 0 {
		elapsed = 0
	}
	t.accumulated += elapsed
	t.running = false
	t.sessionStart = time.Time{}
	hook := t.onPause
	t.mu.Unlock()

	if hook != nil {
		hook(elapsed)
	}
	return elapsed
}

// Elapsed returns the accumulated time plus the in-flight session, if any
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return t.accumulated + t.now().Sub(t.sessionStart)
	}
	return t.accumulated
}

// Running reports whether a session is in progress
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
