package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worktrack/internal/config"
	"worktrack/version"
)

const appName = "worktrack"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           appName,
		Short:         "Application work time tracker",
		Long:          "worktrack attributes the time you actively spend in one application to the project named in its window title.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (default $"+config.ConfigPathEnv+")")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newStartCmd(&configPath))
	root.AddCommand(newStopCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newProjectsCmd(&configPath))
	root.AddCommand(newErrorsCmd(&configPath))
	root.AddCommand(newConfigCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version.Version)
			return err
		},
	}
}
