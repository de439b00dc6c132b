// Package analytics reduces the cleaned trip set into the summary tables
// the exporters and chart renderer consume.
//
// # Architecture
//
// The package has two layers:
//
// 1. Descriptive statistics: Mean, Median, StdDev, Min, Max and the
// Describe bundle over []float64, all skipping NaN inputs and reporting
// NaN when no usable value remains
// 2. Summarizer: groups cleaned trips by one or more dimensions and
// reduces ride_length per group into a SummaryTable
//
// # Usage
//
// Producing a single table:
//
//	summarizer := analytics.NewSummarizer(logger)
//	table, err := summarizer.Summarize(ctx, trips, domain.DimensionDayOfWeek)
//
// Producing the standard tables of a run:
//
//	tables, err := summarizer.SummarizeAll(ctx, trips)
//
// # Ordering
//
// Table rows are ordered independently of input row order: calendar
// dimensions (day_of_week, month, hour_of_day) sort by calendar position,
// categorical dimensions (rideable_type, member_casual) sort by label.
// Summarizing the same trips in any permutation yields identical tables.
//
// # Undefined statistics
//
// A group with no usable ride lengths reports NaN for every statistic
// except Count. Downstream serialization keeps NaN explicit: null in JSON,
// the literal "NaN" in CSV and workbook cells.
package analytics
