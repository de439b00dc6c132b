// Package config provides centralized configuration management for the
// CyclePulse pipeline. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml in the working directory or configs/
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded before environment
// processing so local runs can keep their settings in a dotfile.
//
// # Environment Variables
//
// All environment variables follow the pattern CYCLE_* for namespacing:
//
//	CYCLE_INPUT_DIR=data/trips
//	CYCLE_INPUT_PATTERN=*.csv
//	CYCLE_EXPORT_DIR=data/reports
//	CYCLE_LOGGING_LEVEL=info
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all pipeline paths against a base directory:
//
//	paths := config.NewPaths(baseDir, cfg)
//	chartPath := paths.GetChartPath("ride_count_by_weekday.png")
//	summaryPath := paths.GetSummaryCSVPath("by_weekday")
//
// # Validation
//
// All configuration is validated at load time with
// github.com/go-playground/validator: required directories are present, log
// level and output mode are known values, and chart dimensions are positive.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
