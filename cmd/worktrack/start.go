package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"worktrack/internal/daemon"
)

func newStartCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the tracker in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check tracker status: %w", err)
			}
			if running {
				return fmt.Errorf("%w (PID: %d)", daemon.ErrAlreadyRunning, pid)
			}

			logPath := cfg.Log.File
			if logPath == "" {
				logPath = filepath.Join(os.TempDir(), appName+".log")
			}
			logFile, err := openLogFile(logPath)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			args := []string{exe, "run"}
			if *configPath != "" {
				args = append(args, "--config", *configPath)
			}

			process, err := os.StartProcess(exe, args, &os.ProcAttr{
				Env:   os.Environ(),
				Files: []*os.File{nil, logFile, logFile}, // stdin to /dev/null
				Sys:   detachedAttr(),
			})
			if err != nil {
				return fmt.Errorf("failed to start tracker process: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tracker started successfully (PID: %d)\n", process.Pid)
			fmt.Fprintf(out, "Logs: %s\n", logPath)
			return process.Release()
		},
	}
}
