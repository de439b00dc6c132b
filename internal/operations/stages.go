package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cyclecli/internal/analytics"
	"cyclecli/internal/charts"
	"cyclecli/internal/config"
	"cyclecli/internal/dataprocessing"
	"cyclecli/internal/exporter"
	"cyclecli/internal/validation"
)

// LoadStage reads every matching trip file from the input directory into
// memory. A single malformed file fails the whole run.
type LoadStage struct {
	BaseStage
	loader    *dataprocessing.Loader
	validator *validation.FileValidator
	paths     *config.Paths
	pattern   string
	logger    *slog.Logger
}

// NewLoadStage creates the trip loading step
func NewLoadStage(paths *config.Paths, pattern string, logger *slog.Logger) *LoadStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad, nil),
		loader:    dataprocessing.NewLoader(paths.BaseDir, logger),
		validator: validation.NewFileValidator(logger),
		paths:     paths,
		pattern:   pattern,
		logger:    logger.With(slog.String("step", StageIDLoad)),
	}
}

// Validate checks that the input directory exists before anything runs.
// An absent directory is a setup error worth failing on immediately.
func (s *LoadStage) Validate(state *OperationState) error {
	return s.validator.ValidateInputDirectory(s.paths.InputDir, s.pattern)
}

// Execute loads all trip files and stores the raw rows in the operation state
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	stepState.UpdateProgress(5, "Scanning input directory")

	result, err := s.loader.LoadDirectory(ctx, s.paths.InputDir, s.pattern)
	if err != nil {
		return err
	}

	state.SetRecords(result.Records)
	state.SetSourceFiles(result.SourceFiles)
	state.SetContext(ContextKeyInputDir, s.paths.InputDir)
	state.SetContext(ContextKeyRowsLoaded, len(result.Records))

	stepState.SetMetadata("files", len(result.SourceFiles))
	stepState.SetMetadata("rows", len(result.Records))
	stepState.UpdateProgress(100,
		fmt.Sprintf("Loaded %d rows from %d files", len(result.Records), len(result.SourceFiles)))
	return nil
}

// CleanStage filters the raw rows down to the analyzable working set and
// derives the ride fields the summaries group by.
type CleanStage struct {
	BaseStage
	cleaner *dataprocessing.Cleaner
	logger  *slog.Logger
}

// NewCleanStage creates the trip cleaning step
func NewCleanStage(logger *slog.Logger) *CleanStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean, []string{StageIDLoad}),
		cleaner:   dataprocessing.NewCleaner(logger),
		logger:    logger.With(slog.String("step", StageIDClean)),
	}
}

// Validate checks that the loading step put raw rows into the state
func (s *CleanStage) Validate(state *OperationState) error {
	if _, ok := state.Records(); !ok {
		return fmt.Errorf("no loaded trip rows in operation state")
	}
	return nil
}

// Execute cleans the raw rows and stores the working set and its report
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	records, _ := state.Records()

	stepState.UpdateProgress(10, fmt.Sprintf("Cleaning %d rows", len(records)))

	trips, report := s.cleaner.Clean(ctx, records)

	state.SetCleanedTrips(trips)
	state.SetCleanReport(report)
	state.SetContext(ContextKeyRowsRetained, report.RowsRetained)

	stepState.SetMetadata("rows_retained", report.RowsRetained)
	stepState.SetMetadata("rows_dropped", report.Dropped())
	stepState.UpdateProgress(100,
		fmt.Sprintf("Retained %d of %d rows", report.RowsRetained, report.RowsLoaded))
	return nil
}

// SummarizeStage aggregates the cleaned trips into the standard set of ride
// summary tables.
type SummarizeStage struct {
	BaseStage
	summarizer *analytics.Summarizer
	logger     *slog.Logger
}

// NewSummarizeStage creates the summarization step
func NewSummarizeStage(logger *slog.Logger) *SummarizeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizeStage{
		BaseStage:  NewBaseStage(StageIDSummarize, StageNameSummarize, []string{StageIDClean}),
		summarizer: analytics.NewSummarizer(logger),
		logger:     logger.With(slog.String("step", StageIDSummarize)),
	}
}

// Validate checks that the cleaning step produced a working set
func (s *SummarizeStage) Validate(state *OperationState) error {
	if _, ok := state.CleanedTrips(); !ok {
		return fmt.Errorf("no cleaned trips in operation state")
	}
	return nil
}

// Execute builds every standard summary table from the cleaned trips
func (s *SummarizeStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	trips, _ := state.CleanedTrips()

	stepState.UpdateProgress(10, fmt.Sprintf("Summarizing %d trips", len(trips)))

	tables, err := s.summarizer.SummarizeAll(ctx, trips)
	if err != nil {
		return err
	}

	state.SetTables(tables)
	state.SetContext(ContextKeyTablesBuilt, len(tables))

	stepState.SetMetadata("tables", len(tables))
	stepState.UpdateProgress(100, fmt.Sprintf("Built %d summary tables", len(tables)))
	return nil
}

// ExportStage writes the cleaned working set and every summary table to the
// reports directory: per-table CSVs, the combined JSON document, and the
// workbook when enabled.
type ExportStage struct {
	BaseStage
	trips         *exporter.TripExporter
	summaries     *exporter.SummaryExporter
	workbook      *exporter.WorkbookExporter
	validator     *validation.FileValidator
	paths         *config.Paths
	writeWorkbook bool
	logger        *slog.Logger
}

// NewExportStage creates the report export step
func NewExportStage(paths *config.Paths, cfg config.ExportConfig, logger *slog.Logger) *ExportStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport,
			[]string{StageIDClean, StageIDSummarize}),
		trips:         exporter.NewTripExporter(paths, cfg.BOMPrefix),
		summaries:     exporter.NewSummaryExporter(paths, cfg.BOMPrefix),
		workbook:      exporter.NewWorkbookExporter(paths),
		validator:     validation.NewFileValidator(logger),
		paths:         paths,
		writeWorkbook: cfg.Workbook,
		logger:        logger.With(slog.String("step", StageIDExport)),
	}
}

// Validate checks that both upstream datasets are present and that the
// reports directory is writable before any file is produced
func (s *ExportStage) Validate(state *OperationState) error {
	if _, ok := state.CleanedTrips(); !ok {
		return fmt.Errorf("no cleaned trips in operation state")
	}
	if _, ok := state.Tables(); !ok {
		return fmt.Errorf("no summary tables in operation state")
	}
	return s.validator.ValidateOutputDirectory(s.paths.ReportsDir)
}

// Execute writes every report artifact for the run
func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	trips, _ := state.CleanedTrips()
	tables, _ := state.Tables()
	report, _ := state.CleanReport()
	sourceFiles, _ := state.SourceFiles()

	written := 0

	stepState.UpdateProgress(10, "Writing cleaned trips CSV")
	if err := s.trips.ExportCleanedTrips(trips, s.paths.CleanedTripsCSV); err != nil {
		return err
	}
	written++

	stepState.UpdateProgress(40, "Writing summary CSVs")
	if err := s.summaries.ExportAllTables(tables); err != nil {
		return err
	}
	written += len(tables)

	stepState.UpdateProgress(70, "Writing ride summaries JSON")
	doc := &exporter.RideSummariesDocument{
		GeneratedAt: time.Now().UTC(),
		SourceFiles: sourceFiles,
		CleanReport: report,
		Tables:      tables,
	}
	if err := s.summaries.ExportJSON(doc); err != nil {
		return err
	}
	written++

	if s.writeWorkbook {
		stepState.UpdateProgress(85, "Writing summary workbook")
		if err := s.workbook.ExportWorkbook(tables); err != nil {
			return err
		}
		written++
	}

	state.SetContext(ContextKeyReportsWritten, written)
	stepState.SetMetadata("reports", written)
	stepState.UpdateProgress(100, fmt.Sprintf("Wrote %d report files", written))
	return nil
}

// ChartsStage renders the standard chart set from the summary tables.
type ChartsStage struct {
	BaseStage
	renderer  *charts.Renderer
	validator *validation.FileValidator
	paths     *config.Paths
	logger    *slog.Logger
}

// NewChartsStage creates the chart rendering step
func NewChartsStage(paths *config.Paths, cfg config.ChartsConfig, logger *slog.Logger) *ChartsStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartsStage{
		BaseStage: NewBaseStage(StageIDCharts, StageNameCharts, []string{StageIDSummarize}),
		renderer:  charts.NewRenderer(paths, cfg, logger),
		validator: validation.NewFileValidator(logger),
		paths:     paths,
		logger:    logger.With(slog.String("step", StageIDCharts)),
	}
}

// Validate checks that the summarize step produced tables and that the
// charts directory is writable
func (s *ChartsStage) Validate(state *OperationState) error {
	if _, ok := state.Tables(); !ok {
		return fmt.Errorf("no summary tables in operation state")
	}
	return s.validator.ValidateOutputDirectory(s.paths.ChartsDir)
}

// Execute renders every chart in the standard catalog
func (s *ChartsStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	tables, _ := state.Tables()

	stepState.UpdateProgress(10, fmt.Sprintf("Rendering charts for %d tables", len(tables)))

	written, err := s.renderer.RenderAll(tables)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyChartsRendered, len(written))
	stepState.SetMetadata("charts", len(written))
	stepState.UpdateProgress(100, fmt.Sprintf("Rendered %d charts", len(written)))
	return nil
}

// NewStandardRegistry builds a registry holding the full analysis pipeline
// in its canonical order: load, clean, summarize, export, charts.
func NewStandardRegistry(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry()

	steps := []Step{
		NewLoadStage(paths, cfg.Input.Pattern, logger),
		NewCleanStage(logger),
		NewSummarizeStage(logger),
		NewExportStage(paths, cfg.Export, logger),
		NewChartsStage(paths, cfg.Charts, logger),
	}

	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
