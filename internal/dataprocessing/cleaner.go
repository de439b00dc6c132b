package dataprocessing

import (
	"context"
	"log/slog"

	"cyclecli/internal/infrastructure"
	"cyclecli/pkg/contracts/domain"
)

// Cleaner applies the data-quality rules that turn raw trip records into
// the cleaned working set. Rows are removed, never repaired:
//
//  1. rows missing a start or end station name are dropped
//  2. ride_length and the time fields are derived from the timestamps
//  3. rows with negative ride_length are dropped as recording errors
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a new trip cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: infrastructure.WithComponent(logger, "cleaner")}
}

// Clean filters and derives in one pass, returning the cleaned trips and a
// report accounting for every input row. The station filter runs before
// deriving fields so dropped rows never contribute derived values; the
// negative-length filter necessarily runs after.
func (c *Cleaner) Clean(ctx context.Context, records []domain.TripRecord) ([]domain.CleanedTrip, domain.CleanReport) {
	report := domain.CleanReport{RowsLoaded: len(records)}

	cleaned := make([]domain.CleanedTrip, 0, len(records))
	for _, rec := range records {
		if !rec.HasStations() {
			report.MissingStations++
			continue
		}

		trip := domain.NewCleanedTrip(rec)
		if trip.RideLength < 0 {
			report.NegativeRideLength++
			continue
		}

		cleaned = append(cleaned, trip)
	}

	report.RowsRetained = len(cleaned)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_loaded", report.RowsLoaded),
		slog.Int("missing_stations", report.MissingStations),
		slog.Int("negative_ride_length", report.NegativeRideLength),
		slog.Int("rows_retained", report.RowsRetained))

	return cleaned, report
}
