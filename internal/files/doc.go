// Package files provides file system discovery utilities for the
// CyclePulse trip analysis pipeline.
//
// Discovery finds trip CSV files in an input directory, either every
// .csv file or only those matching a glob pattern. CSV results are
// sorted by file name so repeated runs over the same directory always
// process files in the same order.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/base")
//
//	// Find all trip files for one year
//	tripFiles, err := discovery.FindFilesByPattern("data/trips", "2024*.csv")
package files
