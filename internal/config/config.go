package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Tracker configuration
	Tracker TrackerConfig `yaml:"tracker"`

	// Record log and exclusions files
	Storage StorageConfig `yaml:"storage"`

	// SQLite session mirror
	Database DatabaseConfig `yaml:"database"`

	// Wage figures for statistics
	Wage WageConfig `yaml:"wage"`

	// Daemon configuration
	Daemon DaemonConfig `yaml:"daemon"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// TrackerConfig holds tracking behavior configuration
type TrackerConfig struct {
	TargetProcess   string        `yaml:"target_process"`    // Executable name of the tracked application
	PollInterval    time.Duration `yaml:"poll_interval"`     // How often to sample the target
	MinPollInterval time.Duration `yaml:"min_poll_interval"` // Minimum allowed poll interval
	MaxPollInterval time.Duration `yaml:"max_poll_interval"` // Maximum allowed poll interval
	IdleTimeout     time.Duration `yaml:"idle_timeout"`      // Input staleness before the user counts as idle
	PointerInterval time.Duration `yaml:"pointer_interval"`  // Cursor sampling interval of the input monitor
}

// StorageConfig holds file locations
type StorageConfig struct {
	LogPath        string `yaml:"log_path"`        // Append-only CSV record log
	ExclusionsPath string `yaml:"exclusions_path"` // Projects left out of statistics
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path     string `yaml:"path"`     // Empty means ~/.config/worktrack/worktrack.db
	Disabled bool   `yaml:"disabled"` // Skip the SQLite mirror entirely
}

// WageConfig holds the weekly wage from which the other figures derive
type WageConfig struct {
	Weekly float64 `yaml:"weekly"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"` // Path to PID file for daemon management
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty logs to stderr
}

// Daily returns the wage for one working day (five per week)
func (w WageConfig) Daily() float64 {
	return w.Weekly / 5
}

// Monthly returns the wage for one average month
func (w WageConfig) Monthly() float64 {
	return w.Weekly * (52.0 / 12.0)
}

// Yearly returns the wage for fifty-two weeks
func (w WageConfig) Yearly() float64 {
	return w.Weekly * 52
}

// DefaultTargetProcess returns the DaVinci Resolve executable name for this platform
func DefaultTargetProcess() string {
	if runtime.GOOS == "windows" {
		return "Resolve.exe"
	}
	return "resolve"
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			TargetProcess:   DefaultTargetProcess(),
			PollInterval:    5 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 300 * time.Second,
			IdleTimeout:     20 * time.Second,
			PointerInterval: 250 * time.Millisecond,
		},
		Storage: StorageConfig{
			LogPath:        "resolve_time_log.csv",
			ExclusionsPath: "project-exclusions.ini",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Wage: WageConfig{
			Weekly: 1.0,
		},
		Daemon: DaemonConfig{
			PIDFile: filepath.Join(os.TempDir(), fmt.Sprintf("worktrack-%d.pid", os.Getuid())),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.TargetProcess == "" {
		return fmt.Errorf("target process cannot be empty")
	}

	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", c.Tracker.IdleTimeout)
	}

	if c.Tracker.PointerInterval <= 0 {
		return fmt.Errorf("pointer interval must be positive, got %v", c.Tracker.PointerInterval)
	}

	if c.Storage.LogPath == "" {
		return fmt.Errorf("record log path cannot be empty")
	}

	if c.Wage.Weekly < 0 {
		return fmt.Errorf("weekly wage cannot be negative")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	dbPath := c.Database.Path
	if c.Database.Disabled {
		dbPath = "(disabled)"
	} else if dbPath == "" {
		dbPath = "(default)"
	}

	return fmt.Sprintf(`Configuration:
  Tracker:
    Target Process: %s
    Poll Interval: %v
    Idle Timeout: %v
    Pointer Interval: %v
  Storage:
    Record Log: %s
    Exclusions: %s
  Database:
    Path: %s
  Wage:
    Weekly: %.2f
    Daily: %.2f
    Monthly: %.2f
    Yearly: %.2f
  Daemon:
    PID File: %s
  Log:
    Level: %s`,
		c.Tracker.TargetProcess,
		c.Tracker.PollInterval,
		c.Tracker.IdleTimeout,
		c.Tracker.PointerInterval,
		c.Storage.LogPath,
		c.Storage.ExclusionsPath,
		dbPath,
		c.Wage.Weekly,
		c.Wage.Daily(),
		c.Wage.Monthly(),
		c.Wage.Yearly(),
		c.Daemon.PIDFile,
		c.Log.Level,
	)
}
