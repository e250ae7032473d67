package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"worktrack/internal/activity"
	"worktrack/internal/config"
	"worktrack/internal/models"
	"worktrack/internal/recorder"
	"worktrack/internal/timer"
	"worktrack/pkg/window"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type scriptedSampler struct {
	mu     sync.Mutex
	sample window.Sample
}

func (s *scriptedSampler) Set(sample window.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sample = sample
}

func (s *scriptedSampler) Sample() window.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

type failingSink struct{}

func (failingSink) Append(context.Context, models.SessionRecord) error {
	return errors.New("disk full")
}

type memoryErrorStore struct {
	logs []*models.ErrorLog
}

func (m *memoryErrorStore) CreateErrorLog(errorLog *models.ErrorLog) error {
	m.logs = append(m.logs, errorLog)
	return nil
}

type countingSnapshotter struct {
	calls int
}

func (c *countingSnapshotter) Snapshot(context.Context) {
	c.calls++
}

var (
	absent  = window.Sample{}
	running = window.Sample{ProcessPresent: true}
)

func focused(title string) window.Sample {
	return window.Sample{ProcessPresent: true, WindowTitle: title}
}

type harness struct {
	clock   *fakeClock
	sampler *scriptedSampler
	timer   *timer.Timer
	last    *activity.LastActive
	sink    *recorder.Memory
	service *Service
}

func newHarness(t *testing.T, sink recorder.Sink, opts ...Option) *harness {
	t.Helper()

	cfg := config.Default()
	clock := newFakeClock()
	h := &harness{
		clock:   clock,
		sampler: &scriptedSampler{},
		timer:   timer.New(timer.WithClock(clock.Now)),
		last:    activity.NewLastActive(clock.Now()),
	}
	if sink == nil {
		h.sink = &recorder.Memory{}
		sink = h.sink
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithClock(clock.Now), WithLogger(logger)}, opts...)
	h.service = NewService(cfg, h.sampler, h.timer, h.last, sink, opts...)
	return h
}

func (h *harness) tick(sample window.Sample) {
	h.sampler.Set(sample)
	h.service.trackOnce(context.Background())
}

func TestFocusedSessionIsRecordedOnFocusLoss(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(absent)
	require.False(t, h.timer.Running())

	h.clock.Advance(5 * time.Second)
	h.tick(focused("Timeline1 - ProjectX"))
	require.True(t, h.timer.Running())

	h.clock.Advance(5 * time.Second)
	h.tick(focused("Timeline1 - ProjectX"))
	require.True(t, h.timer.Running())

	h.clock.Advance(5 * time.Second)
	h.tick(absent)
	require.False(t, h.timer.Running())

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, "ProjectX", records[0].Project)
	require.Equal(t, 10.0, records[0].DurationSeconds)
	require.Equal(t, h.clock.Now(), records[0].Timestamp)
	require.Equal(t, int64(1), h.service.Sessions())
	require.Equal(t, 10*time.Second, h.timer.Elapsed())
}

func TestIdleTimeoutClosesSession(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(focused("Edit - Wedding"))
	require.True(t, h.timer.Running())

	h.clock.Advance(25 * time.Second)
	h.tick(focused("Edit - Wedding"))
	require.False(t, h.timer.Running())

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, "Wedding", records[0].Project)
	require.Equal(t, 25.0, records[0].DurationSeconds)

	// Still idle: nothing further is recorded.
	h.clock.Advance(5 * time.Second)
	h.tick(focused("Edit - Wedding"))
	require.Len(t, h.sink.Records(), 1)

	// Fresh input resumes tracking.
	h.last.Touch(h.clock.Now())
	h.tick(focused("Edit - Wedding"))
	require.True(t, h.timer.Running())
}

func TestFocusLossKeepsLastProject(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(focused("Color - Documentary"))
	h.clock.Advance(3 * time.Second)
	h.last.Touch(h.clock.Now())

	// Target still running but another window has focus.
	h.tick(running)

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, "Documentary", records[0].Project)
	require.Equal(t, "Documentary", h.service.Project())
}

func TestTitleWithoutSeparatorIsUnknown(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(focused("DaVinci Resolve"))
	h.clock.Advance(2 * time.Second)
	h.tick(absent)

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, UnknownProject, records[0].Project)
}

func TestNoRecordWhenIdle(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(absent)
	h.clock.Advance(5 * time.Second)
	h.tick(running)
	h.clock.Advance(5 * time.Second)
	h.tick(absent)

	require.Empty(t, h.sink.Records())
	require.Zero(t, h.service.Flush(context.Background()))
}

func TestStartFlushesOnCancel(t *testing.T) {
	h := newHarness(t, nil)

	h.tick(focused("Grade - Trailer"))
	h.clock.Advance(7 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The immediate tick still sees focus, so the session stays open until
	// the shutdown flush closes it.
	err := h.service.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, h.service.IsRunning())

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, "Trailer", records[0].Project)
	require.Equal(t, 7.0, records[0].DurationSeconds)
}

func TestStopEndsLoop(t *testing.T) {
	h := newHarness(t, nil)
	h.sampler.Set(focused("Cut - Short"))

	done := make(chan error, 1)
	go func() {
		done <- h.service.Start(context.Background())
	}()

	require.Eventually(t, h.timer.Running, time.Second, 5*time.Millisecond)
	h.clock.Advance(4 * time.Second)
	h.service.Stop()
	h.service.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}

	records := h.sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, 4.0, records[0].DurationSeconds)
}

func TestStartRejectsSecondRun(t *testing.T) {
	h := newHarness(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.service.Start(ctx) }()

	require.Eventually(t, h.service.IsRunning, time.Second, 5*time.Millisecond)
	require.ErrorContains(t, h.service.Start(ctx), "already running")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestSinkFailureIsStored(t *testing.T) {
	store := &memoryErrorStore{}
	h := newHarness(t, failingSink{}, WithErrorStore(store))

	h.tick(focused("Mix - Podcast"))
	h.clock.Advance(2 * time.Second)
	h.tick(absent)

	require.Len(t, store.logs, 1)
	require.Contains(t, store.logs[0].ErrorMsg, "disk full")
	require.Equal(t, "Podcast", store.logs[0].Project)
	require.Zero(t, h.service.Sessions())

	// The loop keeps going after a failed write.
	h.tick(focused("Mix - Podcast"))
	require.True(t, h.timer.Running())
}

func TestSnapshotAfterEachSession(t *testing.T) {
	snap := &countingSnapshotter{}
	h := newHarness(t, nil, WithSnapshotter(snap))

	h.tick(absent)
	require.Zero(t, snap.calls)

	h.tick(focused("A - One"))
	h.clock.Advance(time.Second)
	h.tick(absent)
	require.Equal(t, 1, snap.calls)

	h.last.Touch(h.clock.Now())
	h.tick(focused("B - Two"))
	h.clock.Advance(time.Second)
	h.tick(running)
	require.Equal(t, 2, snap.calls)
}
