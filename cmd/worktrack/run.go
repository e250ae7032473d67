package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"worktrack/internal/activity"
	"worktrack/internal/config"
	"worktrack/internal/daemon"
	"worktrack/internal/database"
	"worktrack/internal/probe"
	"worktrack/internal/recorder"
	"worktrack/internal/stats"
	"worktrack/internal/timer"
	"worktrack/internal/tracker"
	"worktrack/pkg/detector"
	"worktrack/pkg/utils"
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tracker in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runTracker(cmd, cfg)
		},
	}
}

func runTracker(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	logger, closeLog := newLogger(cfg.Log, cmd.ErrOrStderr())
	defer closeLog()
	slog.SetDefault(logger)

	dm := daemon.New(cfg.Daemon.PIDFile)
	if err := dm.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := dm.RemovePID(); err != nil {
			logger.Warn("failed to remove PID file", "error", err)
		}
	}()

	det, err := detector.New(cfg.Tracker.PointerInterval)
	if err != nil {
		return fmt.Errorf("failed to initialize window detector: %w", err)
	}
	defer det.Close()
	logger.Info("window detector initialized", "display_server", det.GetDisplayServer())

	sinks := []recorder.Sink{recorder.NewCSVLog(cfg.Storage.LogPath)}
	reporter := stats.NewReporter(cfg.Storage.LogPath, cfg.Storage.ExclusionsPath, cfg.Wage)
	opts := []tracker.Option{
		tracker.WithLogger(logger),
		tracker.WithSnapshotter(stats.NewConsoleSnapshot(reporter, out, logger)),
	}

	if !cfg.Database.Disabled {
		db, err := openMirror(cfg.Database.Path)
		if err != nil {
			logger.Warn("session mirror unavailable, recording to CSV only", "error", err)
		} else {
			defer db.Close()
			repo := database.NewRepository(db)
			sinks = append(sinks, repo)
			opts = append(opts, tracker.WithErrorStore(repo))
		}
	}

	lastActive := activity.NewLastActive(time.Now())
	tm := timer.New()
	svc := tracker.NewService(cfg,
		probe.New(det, cfg.Tracker.TargetProcess, logger),
		tm,
		lastActive,
		recorder.Multi(sinks...),
		opts...)
	monitor := activity.NewMonitor(det, lastActive, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Work tracker running | Waiting for %s...\n", cfg.Tracker.TargetProcess)
	logger.Debug("configuration loaded", "config", cfg.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return monitor.Run(gctx) })
	g.Go(func() error { return svc.Start(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("tracker error: %w", err)
	}

	total := tm.Elapsed()
	fmt.Fprintf(out, "\nExiting. Total time tracked: %.2f seconds (%s)\n", total.Seconds(), utils.FormatClock(total))
	return nil
}

// openMirror connects to and migrates the SQLite mirror
func openMirror(path string) (*database.DB, error) {
	db, err := database.Connect(path)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
