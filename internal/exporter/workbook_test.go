package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cyclecli/internal/config"
	"cyclecli/pkg/contracts/domain"
)

func TestWorkbookExporter_ExportWorkbook(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	e := NewWorkbookExporter(paths)
	require.NoError(t, e.ExportWorkbook([]*domain.SummaryTable{weekdayTable(), memberTable()}))

	f, err := excelize.OpenFile(paths.SummaryWorkbook)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"by_weekday", "by_member_casual"}, f.GetSheetList())

	rows, err := f.GetRows("by_weekday")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"DayOfWeek", "Count", "MeanMinutes", "MedianMinutes", "StdDevMinutes", "MinMinutes", "MaxMinutes"}, rows[0])
	assert.Equal(t, []string{"Sunday", "3", "12.5", "12.5", "2.5", "10", "15"}, rows[1])

	// An undefined spread lands in the sheet as the literal string, not a zero.
	assert.Equal(t, []string{"Monday", "1", "8", "8", "NaN", "8", "8"}, rows[2])
}

func TestWorkbookExporter_ExportWorkbook_MemberSheet(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	e := NewWorkbookExporter(paths)
	require.NoError(t, e.ExportWorkbook([]*domain.SummaryTable{memberTable()}))

	f, err := excelize.OpenFile(paths.SummaryWorkbook)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("by_member_casual")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"casual", "1", "30", "30", "NaN", "30", "30"}, rows[1])
	assert.Equal(t, []string{"member", "2", "15", "15", "2.5", "12.5", "17.5"}, rows[2])
}

func TestWorkbookExporter_NoTables(t *testing.T) {
	tempDir := t.TempDir()
	paths := config.NewPaths(tempDir, config.Default())

	// An empty run still produces a workbook; the default sheet stays because
	// a workbook cannot have zero sheets.
	e := NewWorkbookExporter(paths)
	require.NoError(t, e.ExportWorkbook(nil))

	f, err := excelize.OpenFile(paths.SummaryWorkbook)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
