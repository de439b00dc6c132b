package exporter

import (
	"fmt"

	"cyclecli/internal/config"
	"cyclecli/pkg/contracts/domain"
)

// TripExporter writes the cleaned working set to a single CSV so downstream
// tools can consume the filtered trips without re-running the pipeline.
type TripExporter struct {
	csvWriter *CSVWriter
	bomPrefix bool
}

// NewTripExporter creates a cleaned-trips exporter
func NewTripExporter(paths *config.Paths, bomPrefix bool) *TripExporter {
	return &TripExporter{
		csvWriter: NewCSVWriter(paths),
		bomPrefix: bomPrefix,
	}
}

// ExportCleanedTrips streams the cleaned trips to outputPath. A season of
// trip logs runs to millions of rows, so rows go out one at a time instead
// of being materialized as strings first.
func (e *TripExporter) ExportCleanedTrips(trips []domain.CleanedTrip, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, e.getHeaders(), e.bomPrefix)
	if err != nil {
		return fmt.Errorf("failed to create cleaned trips writer: %w", err)
	}

	for i := range trips {
		if err := stream.WriteRecord(e.tripToCSVRow(&trips[i])); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write trip row %d: %w", i, err)
		}
	}

	return stream.Close()
}

// getHeaders returns the CSV headers for cleaned trips. The first seven
// columns echo the trip-log schema; the rest are the derived fields.
func (e *TripExporter) getHeaders() []string {
	return []string{
		"ride_id", "rideable_type", "started_at", "ended_at",
		"start_station_name", "end_station_name", "member_casual",
		"ride_length", "hour_of_day", "day_of_week", "month",
	}
}

// tripToCSVRow converts a cleaned trip to a CSV row
func (e *TripExporter) tripToCSVRow(trip *domain.CleanedTrip) []string {
	return []string{
		trip.RideID,
		trip.RideableType,
		trip.StartedAt.Format(config.TimestampLayout),
		trip.EndedAt.Format(config.TimestampLayout),
		trip.StartStationName,
		trip.EndStationName,
		trip.MemberCasual,
		formatFloat(trip.RideLength),
		formatInt(int64(trip.HourOfDay)),
		formatInt(int64(trip.DayOfWeek)),
		formatInt(int64(trip.Month)),
	}
}
