// Package dataprocessing turns raw trip-log CSV files into the cleaned
// working set the rest of the pipeline consumes.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads one trip CSV file into raw TripRecord rows
// 2. Loader: discovers and concatenates every matching file in a directory
// 3. Cleaner: applies the data-quality rules and derives the analysis fields
//
// # Usage
//
// Loading a directory of trip files:
//
//	loader := dataprocessing.NewLoader(baseDir, logger)
//	result, err := loader.LoadDirectory(ctx, "data/trips", "*.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Cleaning the loaded rows:
//
//	cleaner := dataprocessing.NewCleaner(logger)
//	trips, report := cleaner.Clean(ctx, result.Records)
//
// # Data Flow
//
//	CSV Files → Parser → TripRecords → Cleaner → CleanedTrips + CleanReport
//
// # Error Handling
//
// Structural problems are fatal and carry context naming the offending
// file and row: a missing required header column, a ragged row, or an
// unparseable timestamp aborts the run. Data-quality problems (missing
// station names, negative durations) are not errors; the cleaner removes
// those rows and accounts for them in the CleanReport.
package dataprocessing
