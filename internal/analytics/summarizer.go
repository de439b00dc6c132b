package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cyclecli/internal/errors"
	"cyclecli/internal/infrastructure"
	"cyclecli/pkg/contracts/domain"
)

// StandardDimensionSets lists the grouping-dimension combinations every run
// summarizes, in the order their tables are exported and charted.
var StandardDimensionSets = [][]domain.Dimension{
	{domain.DimensionDayOfWeek},
	{domain.DimensionMonth},
	{domain.DimensionRideableType},
	{domain.DimensionMemberCasual},
	{domain.DimensionHourOfDay},
	{domain.DimensionDayOfWeek, domain.DimensionMemberCasual},
}

// Summarizer provides Single Source of Truth (SSOT) for ride summary
// generation. It groups cleaned trips by the requested dimensions and
// reduces ride_length per group; exporters and chart renderers consume its
// tables and never aggregate on their own.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a ride summarizer logging through the given logger.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: infrastructure.WithComponent(logger, "summarizer")}
}

// Summarize produces one summary table over the given grouping dimensions.
// A row is emitted per distinct key combination observed in the trips;
// absent combinations are not fabricated. Row order is stable and
// independent of input row order: calendar dimensions sort by position,
// categorical ones lexicographically.
func (s *Summarizer) Summarize(ctx context.Context, trips []domain.CleanedTrip, dims ...domain.Dimension) (*domain.SummaryTable, error) {
	if len(dims) == 0 {
		return nil, errors.NewAppValidationError("at least one grouping dimension is required")
	}
	for _, d := range dims {
		if !d.IsValid() {
			return nil, errors.NewAppValidationError(fmt.Sprintf("unknown grouping dimension %q", d))
		}
	}

	groups := make(map[string]*group)
	for i := range trips {
		keys := keysFor(&trips[i], dims)
		id := compositeKey(keys)
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
		}
		g.lengths = append(g.lengths, trips[i].RideLength)
	}

	rows := make([]domain.SummaryRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.SummaryRow{Keys: g.keys, Stats: Describe(g.lengths)})
	}
	sort.Slice(rows, func(i, j int) bool { return domain.RowLess(rows[i], rows[j]) })

	table := &domain.SummaryTable{
		Name:        domain.TableName(dims),
		Dimensions:  dims,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}

	s.logger.InfoContext(ctx, "summary table generated",
		slog.String("table", table.Name),
		slog.Int("groups", len(rows)),
		slog.Int64("trips", table.TotalCount()))

	return table, nil
}

// SummarizeAll produces the standard tables for one cleaned trip set.
func (s *Summarizer) SummarizeAll(ctx context.Context, trips []domain.CleanedTrip) ([]*domain.SummaryTable, error) {
	s.logger.InfoContext(ctx, "generating ride summaries",
		slog.Int("trip_count", len(trips)),
		slog.Int("table_count", len(StandardDimensionSets)))

	tables := make([]*domain.SummaryTable, 0, len(StandardDimensionSets))
	for _, dims := range StandardDimensionSets {
		table, err := s.Summarize(ctx, trips, dims...)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// group accumulates the ride lengths of one key combination.
type group struct {
	keys    []domain.GroupKey
	lengths []float64
}

// keysFor extracts the grouping keys of one trip, in dimension order.
func keysFor(trip *domain.CleanedTrip, dims []domain.Dimension) []domain.GroupKey {
	keys := make([]domain.GroupKey, len(dims))
	for i, d := range dims {
		keys[i] = keyFor(trip, d)
	}
	return keys
}

// keyFor extracts one dimension value from a trip. Calendar dimensions carry
// their position in Ordinal; categorical ones order by Label alone.
func keyFor(trip *domain.CleanedTrip, d domain.Dimension) domain.GroupKey {
	switch d {
	case domain.DimensionDayOfWeek:
		return domain.GroupKey{Dimension: d, Ordinal: trip.DayOfWeek, Label: trip.DayOfWeekLabel()}
	case domain.DimensionMonth:
		return domain.GroupKey{Dimension: d, Ordinal: trip.Month, Label: trip.MonthLabel()}
	case domain.DimensionHourOfDay:
		return domain.GroupKey{Dimension: d, Ordinal: trip.HourOfDay, Label: HourLabel(trip.HourOfDay)}
	case domain.DimensionRideableType:
		return domain.GroupKey{Dimension: d, Label: trip.RideableType}
	case domain.DimensionMemberCasual:
		return domain.GroupKey{Dimension: d, Label: trip.MemberCasual}
	default:
		return domain.GroupKey{Dimension: d}
	}
}

// HourLabel renders an hour of day (0-23) as a fixed two-digit label.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d", hour)
}

// compositeKey builds the map key for one key combination. The unit
// separator keeps multi-dimension keys unambiguous even when labels contain
// spaces or punctuation.
func compositeKey(keys []domain.GroupKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d:%s", k.Dimension, k.Ordinal, k.Label)
	}
	return strings.Join(parts, "\x1f")
}
