package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "cyclecli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Charts  ChartsConfig  `yaml:"charts" envconfig:"CHARTS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes where trip files come from
type InputConfig struct {
	Dir     string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Pattern string `yaml:"pattern" envconfig:"PATTERN" validate:"required"`
}

// ExportConfig controls the report outputs
type ExportConfig struct {
	Dir       string `yaml:"dir" envconfig:"DIR" validate:"required"`
	BOMPrefix bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
	Workbook  bool   `yaml:"workbook" envconfig:"WORKBOOK"`
}

// ChartsConfig controls chart rendering
type ChartsConfig struct {
	Dir          string  `yaml:"dir" envconfig:"DIR" validate:"required"`
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// Load loads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence. A .env file in
// the working directory is read first so local runs can configure through a
// dotfile.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	cfg := *Default()

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg.
// Fields absent from the file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	// An empty log file path falls back to the default even when output is
	// stdout only, so the file sink can always be enabled later.
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:     DefaultInputDir,
			Pattern: DefaultTripFilePattern,
		},
		Export: ExportConfig{
			Dir:       DefaultReportsDir,
			BOMPrefix: false,
			Workbook:  true,
		},
		Charts: ChartsConfig{
			Dir:          DefaultChartsDir,
			WidthInches:  DefaultChartWidthInches,
			HeightInches: DefaultChartHeightInches,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
	}
}
