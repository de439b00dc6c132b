package charts

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/pkg/contracts/domain"
)

func newTestRenderer(t *testing.T) (*Renderer, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.Default())
	return NewRenderer(paths, config.Default().Charts, nil), paths
}

func newTable(dims []domain.Dimension, rows []domain.SummaryRow) *domain.SummaryTable {
	return &domain.SummaryTable{
		Name:       domain.TableName(dims),
		Dimensions: dims,
		Rows:       rows,
	}
}

func calendarRow(d domain.Dimension, ordinal int, label string, count int64, mean float64) domain.SummaryRow {
	return domain.SummaryRow{
		Keys:  []domain.GroupKey{{Dimension: d, Ordinal: ordinal, Label: label}},
		Stats: domain.RideLengthStats{Count: count, Mean: mean, Median: mean, StdDev: 1, Min: mean, Max: mean},
	}
}

func categoricalRow(d domain.Dimension, label string, count int64, mean float64) domain.SummaryRow {
	return domain.SummaryRow{
		Keys:  []domain.GroupKey{{Dimension: d, Label: label}},
		Stats: domain.RideLengthStats{Count: count, Mean: mean, Median: mean, StdDev: 1, Min: mean, Max: mean},
	}
}

func crossedRow(weekday int, weekdayLabel, member string, count int64, mean float64) domain.SummaryRow {
	return domain.SummaryRow{
		Keys: []domain.GroupKey{
			{Dimension: domain.DimensionDayOfWeek, Ordinal: weekday, Label: weekdayLabel},
			{Dimension: domain.DimensionMemberCasual, Label: member},
		},
		Stats: domain.RideLengthStats{Count: count, Mean: mean, Median: mean, StdDev: 1, Min: mean, Max: mean},
	}
}

// assertPNG checks that the renderer produced a real PNG, not just a file.
func assertPNG(t *testing.T, path string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "chart file should exist: %s", path)
	assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG\r\n\x1a\n")), "not a PNG file: %s", path)
}

func TestChartFileName(t *testing.T) {
	tests := []struct {
		metric    Metric
		tableName string
		expected  string
	}{
		{MetricAvgRideLength, "by_weekday", "avg_ride_length_by_weekday.png"},
		{MetricRideCount, "by_hour_of_day", "ride_count_by_hour_of_day.png"},
		{MetricAvgRideLength, "by_weekday_and_member_casual", "avg_ride_length_by_weekday_and_member_casual.png"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChartFileName(tt.metric, tt.tableName))
		})
	}
}

func TestRenderer_RenderTable_SingleDimension(t *testing.T) {
	r, paths := newTestRenderer(t)

	table := newTable(
		[]domain.Dimension{domain.DimensionDayOfWeek},
		[]domain.SummaryRow{
			calendarRow(domain.DimensionDayOfWeek, 1, "Sunday", 3, 12.5),
			calendarRow(domain.DimensionDayOfWeek, 2, "Monday", 1, 8),
		},
	)

	written, err := r.RenderTable(table)
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, "avg_ride_length_by_weekday.png", filepath.Base(written[0]))
	assert.Equal(t, "ride_count_by_weekday.png", filepath.Base(written[1]))
	assertPNG(t, paths.GetChartPath("avg_ride_length_by_weekday.png"))
	assertPNG(t, paths.GetChartPath("ride_count_by_weekday.png"))
}

func TestRenderer_RenderTable_HourOfDayCountOnly(t *testing.T) {
	r, paths := newTestRenderer(t)

	rows := make([]domain.SummaryRow, 24)
	for h := 0; h < 24; h++ {
		rows[h] = calendarRow(domain.DimensionHourOfDay, h, fmt.Sprintf("%02d", h), int64(h+1), float64(h))
	}
	table := newTable([]domain.Dimension{domain.DimensionHourOfDay}, rows)

	written, err := r.RenderTable(table)
	require.NoError(t, err)
	require.Len(t, written, 1)

	assert.Equal(t, "ride_count_by_hour_of_day.png", filepath.Base(written[0]))
	assertPNG(t, paths.GetChartPath("ride_count_by_hour_of_day.png"))
	assert.NoFileExists(t, paths.GetChartPath("avg_ride_length_by_hour_of_day.png"))
}

func TestRenderer_RenderTable_CrossedDimensions(t *testing.T) {
	r, paths := newTestRenderer(t)

	// Sunday/member never happened; its bar renders at zero height.
	table := newTable(
		[]domain.Dimension{domain.DimensionDayOfWeek, domain.DimensionMemberCasual},
		[]domain.SummaryRow{
			crossedRow(1, "Sunday", "casual", 2, 25),
			crossedRow(2, "Monday", "casual", 1, 18),
			crossedRow(2, "Monday", "member", 3, 11),
		},
	)

	written, err := r.RenderTable(table)
	require.NoError(t, err)
	require.Len(t, written, 1)

	assert.Equal(t, "avg_ride_length_by_weekday_and_member_casual.png", filepath.Base(written[0]))
	assertPNG(t, paths.GetChartPath("avg_ride_length_by_weekday_and_member_casual.png"))
}

func TestRenderer_RenderTable_UndefinedMean(t *testing.T) {
	r, paths := newTestRenderer(t)

	table := newTable(
		[]domain.Dimension{domain.DimensionRideableType},
		[]domain.SummaryRow{
			{
				Keys:  []domain.GroupKey{{Dimension: domain.DimensionRideableType, Label: "classic_bike"}},
				Stats: domain.RideLengthStats{Count: 0, Mean: math.NaN(), Median: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()},
			},
			categoricalRow(domain.DimensionRideableType, "electric_bike", 2, 9.5),
		},
	)

	written, err := r.RenderTable(table)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assertPNG(t, paths.GetChartPath("avg_ride_length_by_rideable_type.png"))
}

func TestRenderer_RenderTable_EmptyTable(t *testing.T) {
	r, paths := newTestRenderer(t)

	table := newTable([]domain.Dimension{domain.DimensionMemberCasual}, nil)

	written, err := r.RenderTable(table)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assertPNG(t, paths.GetChartPath("avg_ride_length_by_member_casual.png"))
	assertPNG(t, paths.GetChartPath("ride_count_by_member_casual.png"))
}

func TestRenderer_RenderTable_RejectsInconsistentTable(t *testing.T) {
	r, _ := newTestRenderer(t)

	table := &domain.SummaryTable{
		Name:       "by_weekday",
		Dimensions: []domain.Dimension{domain.DimensionDayOfWeek},
		Rows: []domain.SummaryRow{
			categoricalRow(domain.DimensionMemberCasual, "member", 1, 5),
		},
	}

	_, err := r.RenderTable(table)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
}

func TestRenderer_RenderAll(t *testing.T) {
	r, paths := newTestRenderer(t)

	tables := []*domain.SummaryTable{
		newTable([]domain.Dimension{domain.DimensionDayOfWeek}, []domain.SummaryRow{
			calendarRow(domain.DimensionDayOfWeek, 1, "Sunday", 2, 10),
		}),
		newTable([]domain.Dimension{domain.DimensionMonth}, []domain.SummaryRow{
			calendarRow(domain.DimensionMonth, 6, "Jun", 2, 10),
		}),
		newTable([]domain.Dimension{domain.DimensionRideableType}, []domain.SummaryRow{
			categoricalRow(domain.DimensionRideableType, "classic_bike", 2, 10),
		}),
		newTable([]domain.Dimension{domain.DimensionMemberCasual}, []domain.SummaryRow{
			categoricalRow(domain.DimensionMemberCasual, "member", 2, 10),
		}),
		newTable([]domain.Dimension{domain.DimensionHourOfDay}, []domain.SummaryRow{
			calendarRow(domain.DimensionHourOfDay, 9, "09", 2, 10),
		}),
		newTable([]domain.Dimension{domain.DimensionDayOfWeek, domain.DimensionMemberCasual}, []domain.SummaryRow{
			crossedRow(1, "Sunday", "member", 2, 10),
		}),
	}

	written, err := r.RenderAll(tables)
	require.NoError(t, err)

	names := make([]string, len(written))
	for i, path := range written {
		names[i] = filepath.Base(path)
	}
	assert.Equal(t, []string{
		"avg_ride_length_by_weekday.png",
		"ride_count_by_weekday.png",
		"avg_ride_length_by_month.png",
		"ride_count_by_month.png",
		"avg_ride_length_by_rideable_type.png",
		"ride_count_by_rideable_type.png",
		"avg_ride_length_by_member_casual.png",
		"ride_count_by_member_casual.png",
		"ride_count_by_hour_of_day.png",
		"avg_ride_length_by_weekday_and_member_casual.png",
	}, names)

	for _, name := range names {
		assertPNG(t, paths.GetChartPath(name))
	}
}
