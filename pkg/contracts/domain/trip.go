package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rideable type values as they appear in trip logs. The column is an open
// categorical: unknown values are carried through unchanged, these constants
// only name the ones the fleet currently reports.
const (
	RideableClassic  = "classic_bike"
	RideableElectric = "electric_bike"
	RideableDocked   = "docked_bike"
)

// Rider membership values for the member_casual column.
const (
	RiderMember = "member"
	RiderCasual = "casual"
)

// TripRecord represents the Single Source of Truth (SSOT) for a raw trip-log
// row. This structure defines the authoritative format for trip data across
// the entire CyclePulse system. All parsers, cleaners, summarizers and
// exporters must use this structure for trip operations.
//
// Design Principles:
// - Single Source of Truth for raw trip data
// - Field set matches the trip-log header schema exactly
// - Station names are optional in the source data and may be empty
// - Read-only after parsing: cleaning derives CleanedTrip, never mutates
//
// Usage:
//
//	trip := domain.TripRecord{
//	    RideID:       "5A1B2C3D4E5F6A7B",
//	    RideableType: domain.RideableClassic,
//	    StartedAt:    time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
//	    EndedAt:      time.Date(2024, 6, 3, 10, 15, 0, 0, time.UTC),
//	    MemberCasual: domain.RiderMember,
//	}
type TripRecord struct {
	// RideID is the opaque unique identifier of the trip
	RideID string `json:"ride_id" csv:"ride_id" validate:"required"`

	// RideableType is the bike category (classic_bike, electric_bike, ...)
	RideableType string `json:"rideable_type" csv:"rideable_type" validate:"required"`

	// StartedAt is the local trip start timestamp
	StartedAt time.Time `json:"started_at" csv:"started_at" validate:"required"`

	// EndedAt is the local trip end timestamp
	EndedAt time.Time `json:"ended_at" csv:"ended_at" validate:"required"`

	// StartStationName is the departure station; may be empty in the source data
	StartStationName string `json:"start_station_name" csv:"start_station_name"`

	// EndStationName is the arrival station; may be empty in the source data
	EndStationName string `json:"end_station_name" csv:"end_station_name"`

	// MemberCasual is the rider category (member or casual)
	MemberCasual string `json:"member_casual" csv:"member_casual" validate:"required"`
}

// HasStations reports whether both station names are present.
// Rows failing this check are removed by cleaning, never imputed.
func (t *TripRecord) HasStations() bool {
	return strings.TrimSpace(t.StartStationName) != "" && strings.TrimSpace(t.EndStationName) != ""
}

// ValidateTripRecord checks the structural requirements of a parsed row.
// Station names are deliberately not required here: their absence is a
// cleaning rule, not a parse failure.
func ValidateTripRecord(t *TripRecord) error {
	if t == nil {
		return fmt.Errorf("trip record cannot be nil")
	}
	if t.RideID == "" {
		return fmt.Errorf("ride_id is required")
	}
	if t.StartedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}
	if t.EndedAt.IsZero() {
		return fmt.Errorf("ended_at is required")
	}
	if t.MemberCasual == "" {
		return fmt.Errorf("member_casual is required")
	}
	return nil
}

// CleanedTrip is a TripRecord that passed the cleaning rules, extended with
// the derived analysis fields. RideLength is the elapsed time in minutes from
// plain timestamp subtraction; no calendar or DST adjustment is applied.
//
// Weekday and month numbering is fixed and locale independent:
// Sunday=1 .. Saturday=7 and Jan=1 .. Dec=12.
type CleanedTrip struct {
	TripRecord

	// RideLength is the trip duration in minutes (EndedAt - StartedAt)
	RideLength float64 `json:"ride_length" csv:"ride_length"`

	// HourOfDay is the start hour, 0-23
	HourOfDay int `json:"hour_of_day" csv:"hour_of_day" validate:"min=0,max=23"`

	// DayOfWeek is the start weekday, Sunday=1 .. Saturday=7
	DayOfWeek int `json:"day_of_week" csv:"day_of_week" validate:"min=1,max=7"`

	// Month is the start month, Jan=1 .. Dec=12
	Month int `json:"month" csv:"month" validate:"min=1,max=12"`
}

// NewCleanedTrip derives the analysis fields from a raw record. The caller is
// responsible for applying the cleaning rules; this constructor only computes.
func NewCleanedTrip(rec TripRecord) CleanedTrip {
	return CleanedTrip{
		TripRecord: rec,
		RideLength: rec.EndedAt.Sub(rec.StartedAt).Minutes(),
		HourOfDay:  rec.StartedAt.Hour(),
		DayOfWeek:  int(rec.StartedAt.Weekday()) + 1,
		Month:      int(rec.StartedAt.Month()),
	}
}

// DayOfWeekLabel returns the fixed English weekday name for the trip.
func (c *CleanedTrip) DayOfWeekLabel() string {
	return WeekdayLabel(c.DayOfWeek)
}

// MonthLabel returns the fixed English month abbreviation for the trip.
func (c *CleanedTrip) MonthLabel() string {
	return MonthLabel(c.Month)
}

// WeekdayLabel maps the fixed weekday numbering (Sunday=1 .. Saturday=7) to
// its English name. Go's time package names are locale independent.
func WeekdayLabel(n int) string {
	if n < 1 || n > 7 {
		return fmt.Sprintf("weekday(%d)", n)
	}
	return time.Weekday(n - 1).String()
}

// MonthLabel maps the fixed month numbering (Jan=1 .. Dec=12) to its English
// three-letter abbreviation.
func MonthLabel(n int) string {
	if n < 1 || n > 12 {
		return fmt.Sprintf("month(%d)", n)
	}
	return time.Month(n).String()[:3]
}

// CleanReport accounts for every row seen by the cleaning stage. Dropped rows
// are removed, not repaired, so RowsLoaded = RowsRetained + dropped counts.
type CleanReport struct {
	// SourceFiles is the number of trip files the rows came from
	SourceFiles int `json:"source_files"`

	// RowsLoaded is the number of raw rows entering the cleaning stage
	RowsLoaded int `json:"rows_loaded"`

	// MissingStations counts rows dropped for an absent start or end station
	MissingStations int `json:"missing_stations"`

	// NegativeRideLength counts rows dropped for ended_at before started_at
	NegativeRideLength int `json:"negative_ride_length"`

	// RowsRetained is the size of the cleaned working set
	RowsRetained int `json:"rows_retained"`
}

// Dropped returns the total number of removed rows.
func (r CleanReport) Dropped() int {
	return r.MissingStations + r.NegativeRideLength
}
