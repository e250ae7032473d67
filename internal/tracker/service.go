package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"worktrack/internal/activity"
	"worktrack/internal/config"
	"worktrack/internal/models"
	"worktrack/internal/recorder"
	"worktrack/internal/timer"
	"worktrack/pkg/window"
)

// Sampler observes the target application once per tick
type Sampler interface {
	Sample() window.Sample
}

// Snapshotter reports aggregate statistics after a session closes
type Snapshotter interface {
	Snapshot(ctx context.Context)
}

// ErrorStore keeps tick errors for later inspection
type ErrorStore interface {
	CreateErrorLog(errorLog *models.ErrorLog) error
}

type Service struct {
	config     *config.Config
	probe      Sampler
	timer      *timer.Timer
	lastActive *activity.LastActive
	sink       recorder.Sink
	snapshot   Snapshotter
	errorStore ErrorStore
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	project string

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	sessions atomic.Int64
}

// Option configures a Service
type Option func(*Service)

func WithSnapshotter(s Snapshotter) Option {
	return func(svc *Service) { svc.snapshot = s }
}

func WithErrorStore(store ErrorStore) Option {
	return func(svc *Service) { svc.errorStore = store }
}

func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) { svc.logger = logger }
}

// WithClock replaces time.Now; it must agree with the timer's clock
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

func NewService(cfg *config.Config, probe Sampler, tm *timer.Timer, lastActive *activity.LastActive, sink recorder.Sink, opts ...Option) *Service {
	s := &Service{
		config:     cfg,
		probe:      probe,
		timer:      tm,
		lastActive: lastActive,
		sink:       sink,
		logger:     slog.Default(),
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the attribution loop until ctx is cancelled or Stop is called.
// The open session, if any, is always flushed before Start returns.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("tracker is already running")
	}
	defer s.running.Store(false)

	s.logger.Info("starting tracker",
		"target", s.config.Tracker.TargetProcess,
		"poll_interval", s.config.Tracker.PollInterval,
		"idle_timeout", s.config.Tracker.IdleTimeout)

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	s.trackOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Flush(context.WithoutCancel(ctx))
			s.logger.Info("tracker stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			s.Flush(ctx)
			s.logger.Info("tracker stopped")
			return nil

		case <-ticker.C:
			s.trackOnce(ctx)
		}
	}
}

// Stop ends a running loop
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Project returns the most recently derived project label
func (s *Service) Project() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Sessions returns how many session records were written
func (s *Service) Sessions() int64 {
	return s.sessions.Load()
}

// Flush pauses the timer and records the open session. It returns the
// length of the flushed session, or zero when none was open.
func (s *Service) Flush(ctx context.Context) time.Duration {
	return s.closeSession(ctx, true, "shutdown")
}

func (s *Service) trackOnce(ctx context.Context) {
	sample := s.probe.Sample()

	if !sample.Focused() {
		s.closeSession(ctx, true, "not focused")
		return
	}

	project := ProjectFromTitle(sample.WindowTitle)
	s.setProject(project)

	if s.lastActive.Since(s.now()) < s.config.Tracker.IdleTimeout {
		if s.timer.Start() {
			s.logger.Info("timer started", "project", project)
		}
		return
	}

	s.closeSession(ctx, false, "idle")
}

// closeSession pauses the timer and records a positive elapsed time under
// the current project. Losing focus keeps the last known label; when no label
// was ever seen and requireProject is set, the time is counted but not
// recorded.
func (s *Service) closeSession(ctx context.Context, requireProject bool, reason string) time.Duration {
	elapsed := s.timer.Pause()
	if elapsed <= 0 {
		return 0
	}

	project := s.Project()
	s.logger.Info("timer paused",
		"at", s.now().Format("15:04"),
		"reason", reason,
		"session_seconds", fmt.Sprintf("%.2f", elapsed.Seconds()))

	if requireProject && project == "" {
		return elapsed
	}

	rec := models.NewSessionRecord(s.now(), project, elapsed)
	if err := s.sink.Append(ctx, rec); err != nil {
		s.storeError(fmt.Errorf("failed to record session: %w", err), project)
	} else {
		s.sessions.Add(1)
		s.logger.Debug("session recorded", "project", project, "duration_seconds", rec.DurationSeconds)
	}

	if s.snapshot != nil {
		s.snapshot.Snapshot(ctx)
	}
	return elapsed
}

func (s *Service) setProject(project string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
}

func (s *Service) storeError(err error, project string) {
	s.logger.Error("tick failed", "error", err, "project", project)

	if s.errorStore == nil {
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		ErrorMsg:  err.Error(),
		Project:   project,
	}
	if dbErr := s.errorStore.CreateErrorLog(errorLog); dbErr != nil {
		s.logger.Warn("failed to store error in database", "error", dbErr)
	}
}
