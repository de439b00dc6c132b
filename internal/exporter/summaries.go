package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/pkg/contracts/domain"
)

// statsHeaders is the fixed reduction block every summary CSV ends with.
var statsHeaders = []string{
	"Count", "MeanMinutes", "MedianMinutes", "StdDevMinutes", "MinMinutes", "MaxMinutes",
}

// SummaryExporter writes summary tables to per-table CSV files and to the
// combined JSON document.
type SummaryExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
	bomPrefix bool
}

// NewSummaryExporter creates a summary table exporter
func NewSummaryExporter(paths *config.Paths, bomPrefix bool) *SummaryExporter {
	return &SummaryExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
		bomPrefix: bomPrefix,
	}
}

// ExportTableCSV writes one summary table to reports/summary_<table>.csv.
// Rows keep the table's stable order; undefined statistics stay "NaN".
func (e *SummaryExporter) ExportTableCSV(table *domain.SummaryTable) error {
	if err := domain.ValidateSummaryTable(table); err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("summary table is not exportable: %v", err))
	}

	headers := tableHeaders(table.Dimensions)

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make([]string, 0, len(headers))
		for _, key := range row.Keys {
			record = append(record, key.Label)
		}
		record = append(record,
			formatInt(row.Stats.Count),
			formatFloat(row.Stats.Mean),
			formatFloat(row.Stats.Median),
			formatFloat(row.Stats.StdDev),
			formatFloat(row.Stats.Min),
			formatFloat(row.Stats.Max),
		)
		records = append(records, record)
	}

	path := e.paths.GetSummaryCSVPath(table.Name)
	err := e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: e.bomPrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to write summary table %s: %w", table.Name, err)
	}
	return nil
}

// ExportAllTables writes every table to its own summary CSV.
func (e *SummaryExporter) ExportAllTables(tables []*domain.SummaryTable) error {
	for _, table := range tables {
		if err := e.ExportTableCSV(table); err != nil {
			return err
		}
	}
	return nil
}

// RideSummariesDocument is the JSON envelope around a run's summary tables.
type RideSummariesDocument struct {
	GeneratedAt time.Time              `json:"generated_at"`
	SourceFiles []string               `json:"source_files"`
	CleanReport domain.CleanReport     `json:"clean_report"`
	Tables      []*domain.SummaryTable `json:"tables"`
}

// ExportJSON writes the document to reports/ride_summaries.json. NaN
// statistics serialize as null because JSON has no NaN literal.
func (e *SummaryExporter) ExportJSON(doc *RideSummariesDocument) error {
	if err := os.MkdirAll(filepath.Dir(e.paths.SummariesJSON), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	file, err := os.Create(e.paths.SummariesJSON)
	if err != nil {
		return apperrors.NewStorageError("failed to create ride summaries JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return apperrors.NewStorageError("failed to encode ride summaries to JSON", err)
	}

	return nil
}

// LoadSummaryCSV reads a previously exported summary table back. Chart
// regeneration renders from these files without re-running the pipeline.
func LoadSummaryCSV(path string) (*domain.SummaryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open summary CSV", err).
			WithContext("file", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read summary CSV header", err).
			WithContext("file", path)
	}
	header[0] = strings.TrimPrefix(header[0], "﻿")

	dims, err := headerDimensions(header)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return nil, appErr.WithContext("file", path)
		}
		return nil, err
	}

	table := &domain.SummaryTable{
		Name:       domain.TableName(dims),
		Dimensions: dims,
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read summary CSV row", err).
				WithContext("file", path)
		}

		keys := make([]domain.GroupKey, len(dims))
		for i, d := range dims {
			key, err := keyFromLabel(d, row[i])
			if err != nil {
				return nil, apperrors.NewParsingError("invalid summary key", err).
					WithContext("file", path).WithContext("value", row[i])
			}
			keys[i] = key
		}

		stats, err := statsFromRow(row[len(dims):])
		if err != nil {
			return nil, apperrors.NewParsingError("invalid summary statistics", err).
				WithContext("file", path)
		}

		table.Rows = append(table.Rows, domain.SummaryRow{Keys: keys, Stats: stats})
	}

	return table, nil
}

// tableHeaders builds the header row: one label column per dimension, then
// the fixed statistics block.
func tableHeaders(dims []domain.Dimension) []string {
	headers := make([]string, 0, len(dims)+len(statsHeaders))
	for _, d := range dims {
		headers = append(headers, dimensionHeader(d))
	}
	return append(headers, statsHeaders...)
}

// dimensionHeader maps a grouping dimension to its CSV column name.
func dimensionHeader(d domain.Dimension) string {
	switch d {
	case domain.DimensionDayOfWeek:
		return "DayOfWeek"
	case domain.DimensionMonth:
		return "Month"
	case domain.DimensionHourOfDay:
		return "HourOfDay"
	case domain.DimensionRideableType:
		return "RideableType"
	case domain.DimensionMemberCasual:
		return "MemberCasual"
	default:
		return string(d)
	}
}

// headerDimensions recovers the grouping dimensions from a summary CSV
// header. Leading columns are dimensions; the trailing block must match
// statsHeaders exactly.
func headerDimensions(header []string) ([]domain.Dimension, error) {
	if len(header) < len(statsHeaders)+1 {
		return nil, apperrors.NewParsingError("summary CSV header is too short", nil)
	}

	dimCount := len(header) - len(statsHeaders)
	for i, want := range statsHeaders {
		if header[dimCount+i] != want {
			return nil, apperrors.NewParsingError("unexpected summary statistics column", nil).
				WithContext("column", header[dimCount+i])
		}
	}

	dims := make([]domain.Dimension, dimCount)
	for i := 0; i < dimCount; i++ {
		d, ok := columnDimension(header[i])
		if !ok {
			return nil, apperrors.NewParsingError("unknown summary dimension column", nil).
				WithContext("column", header[i])
		}
		dims[i] = d
	}
	return dims, nil
}

// columnDimension is the inverse of dimensionHeader.
func columnDimension(column string) (domain.Dimension, bool) {
	switch column {
	case "DayOfWeek":
		return domain.DimensionDayOfWeek, true
	case "Month":
		return domain.DimensionMonth, true
	case "HourOfDay":
		return domain.DimensionHourOfDay, true
	case "RideableType":
		return domain.DimensionRideableType, true
	case "MemberCasual":
		return domain.DimensionMemberCasual, true
	}
	return "", false
}

// keyFromLabel rebuilds a group key from its exported label, recovering the
// calendar ordinal so re-loaded tables keep the canonical row order.
func keyFromLabel(d domain.Dimension, label string) (domain.GroupKey, error) {
	switch d {
	case domain.DimensionDayOfWeek:
		for n := 1; n <= 7; n++ {
			if domain.WeekdayLabel(n) == label {
				return domain.GroupKey{Dimension: d, Ordinal: n, Label: label}, nil
			}
		}
		return domain.GroupKey{}, fmt.Errorf("unknown weekday %q", label)
	case domain.DimensionMonth:
		for n := 1; n <= 12; n++ {
			if domain.MonthLabel(n) == label {
				return domain.GroupKey{Dimension: d, Ordinal: n, Label: label}, nil
			}
		}
		return domain.GroupKey{}, fmt.Errorf("unknown month %q", label)
	case domain.DimensionHourOfDay:
		hour, err := strconv.Atoi(label)
		if err != nil || hour < 0 || hour > 23 {
			return domain.GroupKey{}, fmt.Errorf("invalid hour %q", label)
		}
		return domain.GroupKey{Dimension: d, Ordinal: hour, Label: label}, nil
	default:
		return domain.GroupKey{Dimension: d, Label: label}, nil
	}
}

// statsFromRow parses the statistics block of one summary CSV row.
// strconv.ParseFloat turns the literal "NaN" back into NaN.
func statsFromRow(fields []string) (domain.RideLengthStats, error) {
	if len(fields) != len(statsHeaders) {
		return domain.RideLengthStats{}, fmt.Errorf("expected %d statistics fields, got %d", len(statsHeaders), len(fields))
	}

	count, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.RideLengthStats{}, fmt.Errorf("invalid count %q: %w", fields[0], err)
	}

	floats := make([]float64, 5)
	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return domain.RideLengthStats{}, fmt.Errorf("invalid statistic %q: %w", field, err)
		}
		floats[i] = v
	}

	return domain.RideLengthStats{
		Count:  count,
		Mean:   floats[0],
		Median: floats[1],
		StdDev: floats[2],
		Min:    floats[3],
		Max:    floats[4],
	}, nil
}
