package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"worktrack/internal/config"
	"worktrack/internal/daemon"
	"worktrack/internal/database"
	"worktrack/internal/models"
	"worktrack/internal/stats"
	"worktrack/pkg/detector"
	"worktrack/pkg/utils"
)

func newStopCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running tracker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			dm := daemon.New(cfg.Daemon.PIDFile)

			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check tracker status: %w", err)
			}
			if !running {
				fmt.Fprintln(out, "Tracker is not running")
				return nil
			}

			fmt.Fprintf(out, "Stopping tracker (PID: %d)...\n", pid)
			if err := dm.Stop(); err != nil {
				return fmt.Errorf("failed to stop tracker: %w", err)
			}
			fmt.Fprintln(out, "Tracker stopped successfully")
			return nil
		},
	}
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracker status, the last session and the focused window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check tracker status: %w", err)
			}
			if running {
				fmt.Fprintf(out, "Status: Running (PID: %d)\n", pid)
			} else {
				fmt.Fprintln(out, "Status: Not running")
			}
			fmt.Fprintf(out, "Target: %s\n", cfg.Tracker.TargetProcess)
			fmt.Fprintf(out, "Record Log: %s\n", cfg.Storage.LogPath)

			if !cfg.Database.Disabled {
				if latest := latestSession(cfg); latest != nil {
					fmt.Fprintf(out, "\nLast Session:\n")
					fmt.Fprintf(out, "  Project: %s\n", latest.Project)
					fmt.Fprintf(out, "  Ended: %s (%s ago)\n",
						latest.Timestamp.Local().Format("2006-01-02 15:04"),
						utils.FormatRoundedUnit(int64(time.Since(latest.Timestamp).Seconds())))
					fmt.Fprintf(out, "  Duration: %s\n", utils.FormatClock(latest.Duration()))
				}
			}

			// Still show the focused window when the tracker is not running
			det, err := detector.New(cfg.Tracker.PointerInterval)
			if err != nil {
				fmt.Fprintf(out, "\nCould not detect current window: %v\n", err)
				return nil
			}
			defer det.Close()

			if fw, err := det.GetFocusedWindow(); err == nil && fw != nil {
				fmt.Fprintf(out, "\nCurrent Window:\n")
				fmt.Fprintf(out, "  Process: %s\n", fw.ProcessName)
				fmt.Fprintf(out, "  Title: %s\n", fw.Title)
				fmt.Fprintf(out, "  Display: %s\n", fw.DisplayServer)
			}
			return nil
		},
	}
}

// latestSession reads the newest mirrored session, or nil when unavailable
func latestSession(cfg *config.Config) *models.SessionRecord {
	db, err := openMirror(cfg.Database.Path)
	if err != nil {
		return nil
	}
	defer db.Close()

	latest, err := database.NewRepository(db).GetLatest()
	if err != nil {
		return nil
	}
	return latest
}

func newStatsCmd(configPath *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print hourly-equivalent wage statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			result, err := stats.NewReporter(cfg.Storage.LogPath, cfg.Storage.ExclusionsPath, cfg.Wage).Calculate()
			if err != nil {
				return fmt.Errorf("failed to calculate statistics: %w", err)
			}
			if result == nil {
				fmt.Fprintln(out, "No data")
				return nil
			}

			if jsonOutput {
				text, err := stats.FormatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}
			fmt.Fprintln(out, stats.Render(result, stats.NewStyles(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print statistics as JSON")
	return cmd
}

func newProjectsCmd(configPath *string) *cobra.Command {
	var (
		jsonOutput bool
		fromLog    bool
	)

	cmd := &cobra.Command{
		Use:       "projects [day|week|month|year]",
		Short:     "Summarize tracked time per project",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month", "year"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			kind := "day"
			if len(args) > 0 {
				kind = args[0]
			}

			report, err := projectReport(cfg, kind, fromLog || cfg.Database.Disabled)
			if err != nil {
				return err
			}
			if report == nil {
				fmt.Fprintln(out, "No data")
				return nil
			}

			if jsonOutput {
				text, err := stats.FormatJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}
			fmt.Fprint(out, stats.RenderProjects(report, stats.NewStyles(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&fromLog, "from-log", false, "Read the CSV record log instead of the SQLite mirror")
	return cmd
}

// projectReport builds the per-project summary from the mirror, or from the
// CSV log when the mirror is disabled or cannot be opened
func projectReport(cfg *config.Config, kind string, fromLog bool) (*models.ProjectReport, error) {
	reporter := stats.NewReporter(cfg.Storage.LogPath, cfg.Storage.ExclusionsPath, cfg.Wage)
	if fromLog {
		return reporter.Projects(kind)
	}

	now := time.Now()
	period, err := stats.Period(kind, now)
	if err != nil {
		return nil, err
	}

	db, err := openMirror(cfg.Database.Path)
	if err != nil {
		return reporter.Projects(kind)
	}
	defer db.Close()

	exclusions, err := stats.LoadExclusions(cfg.Storage.ExclusionsPath)
	if err != nil {
		return nil, err
	}

	summaries, err := database.NewRepository(db).GetProjectSummary(period.Start, period.End, exclusions)
	if err != nil {
		return nil, fmt.Errorf("failed to get project summary: %w", err)
	}
	return stats.NewProjectReport(*period, summaries, now), nil
}

func newErrorsCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List recent tracker errors stored in the SQLite mirror",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cfg.Database.Disabled {
				fmt.Fprintln(out, "Session mirror is disabled")
				return nil
			}

			db, err := openMirror(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open session mirror: %w", err)
			}
			defer db.Close()

			logs, err := database.NewRepository(db).GetErrorLogs(limit)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(out, "No errors recorded")
				return nil
			}
			for _, l := range logs {
				fmt.Fprintf(out, "%s  %-20s %s\n", l.Timestamp.Local().Format("2006-01-02 15:04:05"), l.Project, l.ErrorMsg)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of errors to show")
	return cmd
}
