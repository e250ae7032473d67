package config_test

import (
	"fmt"
	"time"

	"worktrack/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Poll Interval:", cfg.Tracker.PollInterval)
	fmt.Println("Idle Timeout:", cfg.Tracker.IdleTimeout)
	fmt.Println("Record Log:", cfg.Storage.LogPath)
	// Output:
	// Poll Interval: 5s
	// Idle Timeout: 20s
	// Record Log: resolve_time_log.csv
}

// Example of deriving wage figures from the weekly wage
func ExampleWageConfig() {
	wage := config.WageConfig{Weekly: 1200}
	fmt.Printf("Daily: %.2f\n", wage.Daily())
	fmt.Printf("Monthly: %.2f\n", wage.Monthly())
	fmt.Printf("Yearly: %.2f\n", wage.Yearly())
	// Output:
	// Daily: 240.00
	// Monthly: 5200.00
	// Yearly: 62400.00
}

// Example of setting poll interval with validation
func ExampleConfig_SetPollInterval() {
	cfg := config.Default()

	// Valid interval
	if err := cfg.SetPollInterval(30 * time.Second); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Poll interval set to:", cfg.Tracker.PollInterval)
	}

	// Invalid interval (too low)
	if err := cfg.SetPollInterval(500 * time.Millisecond); err != nil {
		fmt.Println("Error:", err)
	}

	// Output:
	// Poll interval set to: 30s
	// Error: poll interval cannot be less than 1s
}

// Example of validating configuration
func ExampleConfig_Validate() {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	} else {
		fmt.Println("Configuration is valid")
	}

	// Output:
	// Configuration is valid
}
