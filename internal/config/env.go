package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable holding an optional YAML file
const ConfigPathEnv = "WORKTRACK_CONFIG_PATH"

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values; malformed values are ignored
func LoadFromEnv(cfg *Config) {
	// Tracker configuration
	if target := os.Getenv("WORKTRACK_TARGET_PROCESS"); target != "" {
		cfg.Tracker.TargetProcess = target
	}

	if pollInterval := os.Getenv("WORKTRACK_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	if idleTimeout := os.Getenv("WORKTRACK_IDLE_TIMEOUT"); idleTimeout != "" {
		if seconds, err := strconv.Atoi(idleTimeout); err == nil && seconds > 0 {
			cfg.Tracker.IdleTimeout = time.Duration(seconds) * time.Second
		}
	}

	// Storage configuration
	if logPath := os.Getenv("WORKTRACK_LOG_PATH"); logPath != "" {
		cfg.Storage.LogPath = logPath
	}

	if exclusions := os.Getenv("WORKTRACK_EXCLUSIONS_PATH"); exclusions != "" {
		cfg.Storage.ExclusionsPath = exclusions
	}

	// Database configuration
	if dbPath := os.Getenv("WORKTRACK_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if disabled := os.Getenv("WORKTRACK_DB_DISABLED"); disabled != "" {
		if val, err := strconv.ParseBool(disabled); err == nil {
			cfg.Database.Disabled = val
		}
	}

	// Wage configuration
	if weekly := os.Getenv("WORKTRACK_WEEKLY_WAGE"); weekly != "" {
		if val, err := strconv.ParseFloat(weekly, 64); err == nil && val >= 0 {
			cfg.Wage.Weekly = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("WORKTRACK_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Log configuration
	if level := os.Getenv("WORKTRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if logFile := os.Getenv("WORKTRACK_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}

// Load layers defaults, an optional YAML file and the environment. path
// takes precedence over WORKTRACK_CONFIG_PATH; neither is required.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
