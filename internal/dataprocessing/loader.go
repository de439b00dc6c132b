package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "cyclecli/internal/errors"
	"cyclecli/internal/files"
	"cyclecli/internal/infrastructure"
	"cyclecli/pkg/contracts/domain"
)

// Loader reads every matching trip file from a directory and concatenates
// the rows into one collection. Files are processed one at a time in sorted
// name order; the first unparseable file aborts the load.
type Loader struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader rooted at the given base path
func NewLoader(basePath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: files.NewDiscovery(basePath),
		logger:    infrastructure.WithComponent(logger, "loader"),
	}
}

// LoadResult is the outcome of loading one input directory
type LoadResult struct {
	// Records holds every raw row from every source file, in file order
	Records []domain.TripRecord

	// SourceFiles lists the file names that contributed rows, in the
	// order they were read
	SourceFiles []string
}

// LoadDirectory loads all trip files matching pattern from dir.
// An empty directory is an error: a run with no input has nothing to
// analyze and should fail loudly rather than emit empty reports.
func (l *Loader) LoadDirectory(ctx context.Context, dir, pattern string) (*LoadResult, error) {
	found, err := l.discovery.FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan input directory", err).
			WithContext("dir", dir).
			WithContext("pattern", pattern)
	}

	if len(found) == 0 {
		return nil, apperrors.NewNotFoundError("trip files").
			WithContext("dir", dir).
			WithContext("pattern", pattern)
	}

	if latest, ok := files.GetLatestFile(found); ok {
		l.logger.InfoContext(ctx, "discovered trip files",
			slog.Int("count", len(found)),
			slog.Int64("total_bytes", files.TotalSize(found)),
			slog.String("newest", latest.Name))
	}

	result := &LoadResult{}
	for _, file := range found {
		records, err := ParseFile(file.Path)
		if err != nil {
			return nil, err
		}

		l.logger.InfoContext(ctx, "loaded trip file",
			slog.String("file", file.Name),
			slog.Int("rows", len(records)))

		result.Records = append(result.Records, records...)
		result.SourceFiles = append(result.SourceFiles, file.Name)
	}

	l.logger.InfoContext(ctx, "load complete",
		slog.Int("files", len(result.SourceFiles)),
		slog.Int("rows", len(result.Records)))

	return result, nil
}
