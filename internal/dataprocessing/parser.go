package dataprocessing

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"log/slog"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/pkg/contracts/domain"
)

// Timestamp layouts accepted for started_at / ended_at. Trip logs usually
// carry seconds but some exports truncate to the minute.
var timestampLayouts = []string{
	config.TimestampLayout,
	config.TimestampLayoutMinute,
}

// requiredColumns is the header schema a trip file must provide. Extra
// columns (station ids, coordinates) are ignored.
var requiredColumns = []string{
	"ride_id",
	"rideable_type",
	"started_at",
	"ended_at",
	"start_station_name",
	"end_station_name",
	"member_casual",
}

// ParseFile reads one trip-log CSV file and extracts its raw trip records.
// Any structural problem is fatal for the run: a missing required header
// column, a ragged row, or an unparseable timestamp all return a parsing
// error identifying the file (and row where applicable). Rows are never
// silently skipped; data-quality filtering happens later in cleaning.
func ParseFile(filePath string) ([]domain.TripRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open trip file", err).
			WithContext("file", filePath)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV header", err).
			WithContext("file", filePath)
	}

	columnMap, err := mapColumns(header)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return nil, appErr.WithContext("file", filePath)
		}
		return nil, err
	}

	slog.Debug("parsed trip file header",
		slog.String("file", filePath),
		slog.Int("columns", len(header)))

	var records []domain.TripRecord
	rowNum := 1 // header was row 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV row", err).
				WithContext("file", filePath).
				WithContext("row", rowNum)
		}

		record, err := parseRow(row, columnMap)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok {
				return nil, appErr.WithContext("file", filePath).WithContext("row", rowNum)
			}
			return nil, err
		}

		records = append(records, record)
	}

	slog.Debug("parsed trip file",
		slog.String("file", filePath),
		slog.Int("rows", len(records)))

	return records, nil
}

// mapColumns maps required column names to their positions in the header.
// Matching is case-insensitive and tolerant of surrounding whitespace and a
// UTF-8 byte order mark on the first cell.
func mapColumns(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(requiredColumns))

	for j, name := range header {
		if j == 0 {
			name = strings.TrimPrefix(name, "﻿")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := columnMap[key]; !exists {
			columnMap[key] = j
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError("trip file header is missing required columns", nil).
			WithContext("missing_columns", strings.Join(missing, ", "))
	}

	return columnMap, nil
}

// parseRow converts one CSV row into a TripRecord using the column map.
// encoding/csv guarantees the row has as many fields as the header, so
// positions from the map are always in range.
func parseRow(row []string, columnMap map[string]int) (domain.TripRecord, error) {
	get := func(col string) string {
		return strings.TrimSpace(row[columnMap[col]])
	}

	startedAt, err := parseTimestamp(get("started_at"))
	if err != nil {
		return domain.TripRecord{}, apperrors.NewParsingError("invalid started_at timestamp", err).
			WithContext("value", get("started_at"))
	}

	endedAt, err := parseTimestamp(get("ended_at"))
	if err != nil {
		return domain.TripRecord{}, apperrors.NewParsingError("invalid ended_at timestamp", err).
			WithContext("value", get("ended_at"))
	}

	record := domain.TripRecord{
		RideID:           get("ride_id"),
		RideableType:     get("rideable_type"),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		StartStationName: get("start_station_name"),
		EndStationName:   get("end_station_name"),
		MemberCasual:     get("member_casual"),
	}

	if err := domain.ValidateTripRecord(&record); err != nil {
		return domain.TripRecord{}, apperrors.NewParsingError("invalid trip row", err)
	}

	return record, nil
}

// parseTimestamp tries each accepted layout in order
func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
