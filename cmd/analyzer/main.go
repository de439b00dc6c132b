package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cyclecli/internal/config"
	"cyclecli/internal/infrastructure"
	"cyclecli/internal/operations"
	"cyclecli/pkg/contracts"
)

func main() {
	inDir := flag.String("in", "", "input directory for trip CSV files (defaults to data/trips)")
	outDir := flag.String("out", "", "output directory for report files (defaults to data/reports)")
	chartsDir := flag.String("charts", "", "output directory for chart PNGs (defaults to data/charts)")
	pattern := flag.String("pattern", "", "trip file glob pattern (defaults to *.csv)")
	noWorkbook := flag.Bool("no-workbook", false, "skip the Excel workbook export")
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

	// Flags override file and environment configuration
	if *inDir != "" {
		cfg.Input.Dir = *inDir
	}
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}
	if *chartsDir != "" {
		cfg.Charts.Dir = *chartsDir
	}
	if *pattern != "" {
		cfg.Input.Pattern = *pattern
	}
	if *noWorkbook {
		cfg.Export.Workbook = false
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

	// Anchor the log file under the run's logs directory
	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Starting trip analysis",
		slog.String("app", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("input_dir", paths.InputDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("charts_dir", paths.ChartsDir),
		slog.String("pattern", cfg.Input.Pattern))

	registry, err := operations.NewStandardRegistry(cfg, paths, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	manager := operations.NewManager(registry, logger)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{})
	if err != nil {
		infrastructure.WithError(logger, err).Error("Analysis run failed",
			slog.String("operation_id", resp.ID))
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	printRunSummary(os.Stdout, resp, paths)
}

// printRunSummary reports the run counts on w, independent of the
// structured log destination.
func printRunSummary(w io.Writer, resp *operations.OperationResponse, paths *config.Paths) {
	fmt.Fprintf(w, "Analysis complete in %s\n", resp.Duration.Round(time.Millisecond))

	if step := resp.Steps[operations.StageIDLoad]; step != nil {
		rows, _ := step.GetMetadata("rows")
		files, _ := step.GetMetadata("files")
		fmt.Fprintf(w, "Loaded %v rows from %v trip files\n", rows, files)
	}
	if step := resp.Steps[operations.StageIDClean]; step != nil {
		retained, _ := step.GetMetadata("rows_retained")
		dropped, _ := step.GetMetadata("rows_dropped")
		fmt.Fprintf(w, "Retained %v rows, dropped %v\n", retained, dropped)
	}
	if step := resp.Steps[operations.StageIDExport]; step != nil {
		reports, _ := step.GetMetadata("reports")
		fmt.Fprintf(w, "Wrote %v report files to %s\n", reports, paths.ReportsDir)
	}
	if step := resp.Steps[operations.StageIDCharts]; step != nil {
		charts, _ := step.GetMetadata("charts")
		fmt.Fprintf(w, "Rendered %v charts to %s\n", charts, paths.ChartsDir)
	}
}
