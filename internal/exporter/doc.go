// Package exporter writes the pipeline's report artifacts.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TripExporter: Streams the cleaned working set to cleaned_trips.csv so
// downstream tools can consume the filtered trips.
//
// SummaryExporter: Writes one summary_<table>.csv per summary table plus the
// combined ride_summaries.json document, and reads summary CSVs back for
// chart regeneration.
//
// WorkbookExporter: Writes all summary tables into ride_summaries.xlsx, one
// sheet per table.
//
// Example usage:
//
//	// Export the cleaned working set
//	tripExporter := exporter.NewTripExporter(paths, false)
//	err := tripExporter.ExportCleanedTrips(trips, paths.CleanedTripsCSV)
//
//	// Export summary tables to CSV and JSON
//	summaryExporter := exporter.NewSummaryExporter(paths, false)
//	err = summaryExporter.ExportAllTables(tables)
//	err = summaryExporter.ExportJSON(doc)
//
// Undefined statistics stay explicit in every format: "NaN" in CSV and
// workbook cells, null in JSON.
package exporter
