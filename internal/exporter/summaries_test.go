package exporter

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/pkg/contracts/domain"
)

// weekdayTable builds a small day_of_week table whose Monday row carries an
// undefined spread.
func weekdayTable() *domain.SummaryTable {
	return &domain.SummaryTable{
		Name:       "by_weekday",
		Dimensions: []domain.Dimension{domain.DimensionDayOfWeek},
		Rows: []domain.SummaryRow{
			{
				Keys:  []domain.GroupKey{{Dimension: domain.DimensionDayOfWeek, Ordinal: 1, Label: "Sunday"}},
				Stats: domain.RideLengthStats{Count: 3, Mean: 12.5, Median: 12.5, StdDev: 2.5, Min: 10, Max: 15},
			},
			{
				Keys:  []domain.GroupKey{{Dimension: domain.DimensionDayOfWeek, Ordinal: 2, Label: "Monday"}},
				Stats: domain.RideLengthStats{Count: 1, Mean: 8, Median: 8, StdDev: math.NaN(), Min: 8, Max: 8},
			},
		},
		GeneratedAt: time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func memberTable() *domain.SummaryTable {
	return &domain.SummaryTable{
		Name:       "by_member_casual",
		Dimensions: []domain.Dimension{domain.DimensionMemberCasual},
		Rows: []domain.SummaryRow{
			{
				Keys:  []domain.GroupKey{{Dimension: domain.DimensionMemberCasual, Label: "casual"}},
				Stats: domain.RideLengthStats{Count: 1, Mean: 30, Median: 30, StdDev: math.NaN(), Min: 30, Max: 30},
			},
			{
				Keys:  []domain.GroupKey{{Dimension: domain.DimensionMemberCasual, Label: "member"}},
				Stats: domain.RideLengthStats{Count: 2, Mean: 15, Median: 15, StdDev: 2.5, Min: 12.5, Max: 17.5},
			},
		},
		GeneratedAt: time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSummaryExporter_ExportTableCSV(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	e := NewSummaryExporter(paths, false)
	require.NoError(t, e.ExportTableCSV(weekdayTable()))

	content, err := os.ReadFile(paths.GetSummaryCSVPath("by_weekday"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "DayOfWeek,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes", lines[0])
	assert.Equal(t, "Sunday,3,12.50,12.50,2.50,10.00,15.00", lines[1])
	assert.Equal(t, "Monday,1,8.00,8.00,NaN,8.00,8.00", lines[2])
}

func TestSummaryExporter_ExportTableCSV_CrossedDimensions(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	table := &domain.SummaryTable{
		Name:       "by_weekday_and_member_casual",
		Dimensions: []domain.Dimension{domain.DimensionDayOfWeek, domain.DimensionMemberCasual},
		Rows: []domain.SummaryRow{
			{
				Keys: []domain.GroupKey{
					{Dimension: domain.DimensionDayOfWeek, Ordinal: 1, Label: "Sunday"},
					{Dimension: domain.DimensionMemberCasual, Label: "casual"},
				},
				Stats: domain.RideLengthStats{Count: 2, Mean: 20, Median: 20, StdDev: math.Sqrt2, Min: 19, Max: 21},
			},
		},
	}

	e := NewSummaryExporter(paths, false)
	require.NoError(t, e.ExportTableCSV(table))

	content, err := os.ReadFile(paths.GetSummaryCSVPath("by_weekday_and_member_casual"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "DayOfWeek,MemberCasual,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes", lines[0])
	assert.Equal(t, "Sunday,casual,2,20.00,20.00,1.41,19.00,21.00", lines[1])
}

func TestSummaryExporter_ExportTableCSV_RejectsInconsistentTable(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	table := &domain.SummaryTable{
		Name:       "by_weekday",
		Dimensions: []domain.Dimension{domain.DimensionDayOfWeek},
		Rows: []domain.SummaryRow{
			{Keys: []domain.GroupKey{{Dimension: domain.DimensionMonth, Ordinal: 1, Label: "Jan"}}},
		},
	}

	err := NewSummaryExporter(paths, false).ExportTableCSV(table)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
}

func TestSummaryExporter_ExportAllTables(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	e := NewSummaryExporter(paths, false)
	require.NoError(t, e.ExportAllTables([]*domain.SummaryTable{weekdayTable(), memberTable()}))

	assert.FileExists(t, paths.GetSummaryCSVPath("by_weekday"))
	assert.FileExists(t, paths.GetSummaryCSVPath("by_member_casual"))
}

func TestSummaryExporter_ExportJSON(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	doc := &RideSummariesDocument{
		GeneratedAt: time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC),
		SourceFiles: []string{"202406-tripdata.csv"},
		CleanReport: domain.CleanReport{SourceFiles: 1, RowsLoaded: 4, MissingStations: 1, RowsRetained: 3},
		Tables:      []*domain.SummaryTable{weekdayTable()},
	}

	e := NewSummaryExporter(paths, false)
	require.NoError(t, e.ExportJSON(doc))

	content, err := os.ReadFile(paths.SummariesJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &decoded))

	assert.Equal(t, "2024-08-01T12:00:00Z", decoded["generated_at"])
	assert.Equal(t, []interface{}{"202406-tripdata.csv"}, decoded["source_files"])

	report := decoded["clean_report"].(map[string]interface{})
	assert.Equal(t, float64(4), report["rows_loaded"])
	assert.Equal(t, float64(3), report["rows_retained"])

	tables := decoded["tables"].([]interface{})
	require.Len(t, tables, 1)
	rows := tables[0].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 2)

	// The Monday row's undefined spread must be null, never zero.
	monday := rows[1].(map[string]interface{})["stats"].(map[string]interface{})
	assert.Nil(t, monday["std_dev"])
	assert.Equal(t, float64(8), monday["mean"])
}

func TestLoadSummaryCSV_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())
	original := weekdayTable()

	e := NewSummaryExporter(paths, false)
	require.NoError(t, e.ExportTableCSV(original))

	loaded, err := LoadSummaryCSV(paths.GetSummaryCSVPath("by_weekday"))
	require.NoError(t, err)

	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Dimensions, loaded.Dimensions)
	require.Len(t, loaded.Rows, len(original.Rows))

	// Keys come back with their calendar ordinals restored.
	for i := range original.Rows {
		assert.Equal(t, original.Rows[i].Keys, loaded.Rows[i].Keys)
		assert.Equal(t, original.Rows[i].Stats.Count, loaded.Rows[i].Stats.Count)
	}

	// Fixture values are exact at two decimals, so they survive unchanged.
	assert.Equal(t, 12.5, loaded.Rows[0].Stats.Mean)
	assert.Equal(t, 2.5, loaded.Rows[0].Stats.StdDev)
	assert.True(t, math.IsNaN(loaded.Rows[1].Stats.StdDev))
}

func TestLoadSummaryCSV_WithBOM(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	e := NewSummaryExporter(paths, true)
	require.NoError(t, e.ExportTableCSV(memberTable()))

	loaded, err := LoadSummaryCSV(paths.GetSummaryCSVPath("by_member_casual"))
	require.NoError(t, err)

	assert.Equal(t, []domain.Dimension{domain.DimensionMemberCasual}, loaded.Dimensions)
	require.Len(t, loaded.Rows, 2)
	assert.Equal(t, "casual", loaded.Rows[0].Keys[0].Label)
}

func TestLoadSummaryCSV_Errors(t *testing.T) {
	tempDir := t.TempDir()

	writeFixture := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(tempDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(tempDir, "absent.csv") },
			wantType: apperrors.ErrTypeStorage,
		},
		{
			name: "unknown dimension column",
			path: func(t *testing.T) string {
				return writeFixture(t, "unknown_dim.csv",
					"Station,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes\n")
			},
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "header too short",
			path: func(t *testing.T) string {
				return writeFixture(t, "short.csv", "DayOfWeek,Count\n")
			},
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "invalid hour label",
			path: func(t *testing.T) string {
				return writeFixture(t, "bad_hour.csv",
					"HourOfDay,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes\n"+
						"late,1,8.00,8.00,NaN,8.00,8.00\n")
			},
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "invalid count",
			path: func(t *testing.T) string {
				return writeFixture(t, "bad_count.csv",
					"DayOfWeek,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes\n"+
						"Sunday,many,8.00,8.00,NaN,8.00,8.00\n")
			},
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "unknown weekday label",
			path: func(t *testing.T) string {
				return writeFixture(t, "bad_weekday.csv",
					"DayOfWeek,Count,MeanMinutes,MedianMinutes,StdDevMinutes,MinMinutes,MaxMinutes\n"+
						"Funday,1,8.00,8.00,NaN,8.00,8.00\n")
			},
			wantType: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSummaryCSV(tt.path(t))
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}
}
