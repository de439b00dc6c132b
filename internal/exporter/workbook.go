package exporter

import (
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/pkg/contracts/domain"
)

// WorkbookExporter writes every summary table into one Excel workbook,
// one sheet per table.
type WorkbookExporter struct {
	paths *config.Paths
}

// NewWorkbookExporter creates a summary workbook exporter
func NewWorkbookExporter(paths *config.Paths) *WorkbookExporter {
	return &WorkbookExporter{paths: paths}
}

// ExportWorkbook writes the tables to reports/ride_summaries.xlsx. Numeric
// statistics stay numeric cells; NaN becomes the literal string "NaN"
// because spreadsheet cells have no NaN number.
func (e *WorkbookExporter) ExportWorkbook(tables []*domain.SummaryTable) error {
	if err := os.MkdirAll(filepath.Dir(e.paths.SummaryWorkbook), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for workbook output", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, table := range tables {
		if _, err := f.NewSheet(table.Name); err != nil {
			return apperrors.NewStorageError("failed to create workbook sheet", err).
				WithContext("sheet", table.Name)
		}
		if err := e.writeSheet(f, table); err != nil {
			return err
		}
	}

	// The default sheet is superseded by the per-table sheets.
	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return apperrors.NewStorageError("failed to remove default sheet", err)
		}
	}

	if err := f.SaveAs(e.paths.SummaryWorkbook); err != nil {
		return apperrors.NewStorageError("failed to save summary workbook", err).
			WithContext("file", e.paths.SummaryWorkbook)
	}

	return nil
}

// writeSheet fills one sheet with the table's header row and data rows.
func (e *WorkbookExporter) writeSheet(f *excelize.File, table *domain.SummaryTable) error {
	headers := tableHeaders(table.Dimensions)

	for col, header := range headers {
		if err := setCell(f, table.Name, col+1, 1, header); err != nil {
			return err
		}
	}

	for i, row := range table.Rows {
		values := make([]interface{}, 0, len(headers))
		for _, key := range row.Keys {
			values = append(values, key.Label)
		}
		values = append(values,
			row.Stats.Count,
			cellValue(row.Stats.Mean),
			cellValue(row.Stats.Median),
			cellValue(row.Stats.StdDev),
			cellValue(row.Stats.Min),
			cellValue(row.Stats.Max),
		)

		for col, value := range values {
			if err := setCell(f, table.Name, col+1, i+2, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// setCell writes one cell by 1-based coordinates.
func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return apperrors.NewStorageError("failed to address workbook cell", err).
			WithContext("sheet", sheet)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return apperrors.NewStorageError("failed to write workbook cell", err).
			WithContext("sheet", sheet).WithContext("cell", cell)
	}
	return nil
}

// cellValue keeps defined statistics numeric and renders NaN as a string.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return "NaN"
	}
	return v
}
