package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the pipeline.
type Paths struct {
	BaseDir    string
	DataDir    string
	InputDir   string
	ReportsDir string
	ChartsDir  string
	LogsDir    string

	// Well-known report files
	CleanedTripsCSV string
	SummariesJSON   string
	SummaryWorkbook string
}

// NewPaths builds the path set from the configured directories, resolving
// relative entries against baseDir.
func NewPaths(baseDir string, cfg *Config) *Paths {
	if cfg == nil {
		cfg = Default()
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}

	reportsDir := resolve(cfg.Export.Dir)

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    resolve(DefaultDataDir),
		InputDir:   resolve(cfg.Input.Dir),
		ReportsDir: reportsDir,
		ChartsDir:  resolve(cfg.Charts.Dir),
		LogsDir:    resolve(DefaultLogsDir),

		CleanedTripsCSV: filepath.Join(reportsDir, CleanedTripsCSVName),
		SummariesJSON:   filepath.Join(reportsDir, SummariesJSONName),
		SummaryWorkbook: filepath.Join(reportsDir, SummaryWorkbookName),
	}
}

// GetPaths returns the default path set resolved against the working
// directory. Binaries that take directory flags build their own Paths with
// NewPaths instead.
func GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return NewPaths(wd, Default()), nil
}

// EnsureDirectories creates all output directories if they don't exist.
// The input directory is deliberately not created: an absent input directory
// is a run error, not something to paper over.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetInputPath returns the path for a trip file in the input directory
func (p *Paths) GetInputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the path for a chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetSummaryCSVPath returns the report path for one summary table,
// e.g. "by_weekday" -> data/reports/summary_by_weekday.csv.
func (p *Paths) GetSummaryCSVPath(tableName string) string {
	return filepath.Join(p.ReportsDir, fmt.Sprintf("%s%s.csv", SummaryCSVPrefix, tableName))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
