package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cyclecli/internal/charts"
	"cyclecli/internal/config"
	"cyclecli/internal/exporter"
	"cyclecli/internal/files"
	"cyclecli/internal/infrastructure"
	"cyclecli/internal/validation"
	"cyclecli/pkg/contracts"
	"cyclecli/pkg/contracts/domain"
)

// chartgen re-renders the chart set from previously exported summary CSVs,
// so chart styling changes do not force a full re-run over the trip logs.
func main() {
	reportsDir := flag.String("reports", "", "directory holding summary CSV files (defaults to data/reports)")
	chartsDir := flag.String("charts", "", "output directory for chart PNGs (defaults to data/charts)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *reportsDir != "" {
		cfg.Export.Dir = *reportsDir
	}
	if *chartsDir != "" {
		cfg.Charts.Dir = *chartsDir
	}

	wd, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to get working directory", "error", err)
		os.Exit(1)
	}
	paths := config.NewPaths(wd, cfg)

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	tables, err := loadSummaryTables(logger, paths.ReportsDir)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Failed to load summary tables")
		os.Exit(1)
	}

	renderer := charts.NewRenderer(paths, cfg.Charts, logger)
	written, err := renderer.RenderAll(tables)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Chart rendering failed")
		os.Exit(1)
	}

	fmt.Printf("Rendered %d charts to %s\n", len(written), paths.ChartsDir)
}

// loadSummaryTables reads every summary CSV in the reports directory back
// into tables, in file name order.
func loadSummaryTables(logger *slog.Logger, reportsDir string) ([]*domain.SummaryTable, error) {
	discovery := files.NewDiscovery(reportsDir)
	found, err := discovery.FindFilesByPattern(reportsDir, config.SummaryCSVPrefix+"*"+config.CSVFileExtension)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no summary CSV files in %s, run analyzer first", reportsDir)
	}

	validator := validation.NewFileValidator(logger)
	tables := make([]*domain.SummaryTable, 0, len(found))
	for _, file := range found {
		if err := validator.ValidateCSVFile(file.Path); err != nil {
			return nil, err
		}
		table, err := exporter.LoadSummaryCSV(file.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded summary table",
			slog.String("file", file.Name),
			slog.String("table", table.Name),
			slog.Int("rows", len(table.Rows)))
		tables = append(tables, table)
	}
	return tables, nil
}
