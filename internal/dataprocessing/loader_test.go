package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cyclecli/internal/errors"
)

func TestLoader_LoadDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// Two months of trips plus a file the pattern must ignore
	writeTripFile(t, tmpDir, "202406-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"JUN1,classic_bike,2024-06-02 10:00:00,2024-06-02 10:15:00,A,B,member\n"+
			"JUN2,electric_bike,2024-06-03 11:00:00,2024-06-03 11:05:00,C,D,casual\n")
	writeTripFile(t, tmpDir, "202407-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"JUL1,classic_bike,2024-07-02 09:00:00,2024-07-02 09:20:00,A,B,member\n")
	writeTripFile(t, tmpDir, "notes.txt", "not a trip file\n")

	loader := NewLoader(tmpDir, nil)
	result, err := loader.LoadDirectory(context.Background(), tmpDir, "*.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"202406-tripdata.csv", "202407-tripdata.csv"}, result.SourceFiles)
	require.Len(t, result.Records, 3)

	// Rows arrive in file order
	assert.Equal(t, "JUN1", result.Records[0].RideID)
	assert.Equal(t, "JUN2", result.Records[1].RideID)
	assert.Equal(t, "JUL1", result.Records[2].RideID)
}

func TestLoader_PatternFilter(t *testing.T) {
	tmpDir := t.TempDir()

	writeTripFile(t, tmpDir, "202406-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"JUN1,classic_bike,2024-06-02 10:00:00,2024-06-02 10:15:00,A,B,member\n")
	writeTripFile(t, tmpDir, "202506-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"NEXT1,classic_bike,2025-06-02 10:00:00,2025-06-02 10:15:00,A,B,member\n")

	loader := NewLoader(tmpDir, nil)
	result, err := loader.LoadDirectory(context.Background(), tmpDir, "2024*.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"202406-tripdata.csv"}, result.SourceFiles)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "JUN1", result.Records[0].RideID)
}

func TestLoader_NoFilesFound(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)

	_, err := loader.LoadDirectory(context.Background(), t.TempDir(), "*.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

func TestLoader_MalformedFileAborts(t *testing.T) {
	tmpDir := t.TempDir()

	writeTripFile(t, tmpDir, "202406-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"GOOD,classic_bike,2024-06-02 10:00:00,2024-06-02 10:15:00,A,B,member\n")
	badPath := writeTripFile(t, tmpDir, "202407-tripdata.csv",
		"ride_id,rideable_type,started_at,ended_at,start_station_name,end_station_name,member_casual\n"+
			"BAD,classic_bike,garbage,2024-07-02 09:20:00,A,B,member\n")

	loader := NewLoader(tmpDir, nil)
	_, err := loader.LoadDirectory(context.Background(), tmpDir, "*.csv")
	require.Error(t, err)

	// The error names the offending file
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, badPath, appErr.Context["file"])
}

func TestLoader_MissingDirectory(t *testing.T) {
	loader := NewLoader("/nonexistent/base", nil)

	// Glob on a nonexistent directory matches nothing
	_, err := loader.LoadDirectory(context.Background(), "/nonexistent/base/trips", "*.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}
