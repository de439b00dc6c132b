package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Dimension identifies a grouping key for ride summaries.
type Dimension string

const (
	DimensionDayOfWeek    Dimension = "day_of_week"
	DimensionMonth        Dimension = "month"
	DimensionHourOfDay    Dimension = "hour_of_day"
	DimensionRideableType Dimension = "rideable_type"
	DimensionMemberCasual Dimension = "member_casual"
)

// IsCalendar reports whether the dimension orders by calendar position
// rather than lexicographically.
func (d Dimension) IsCalendar() bool {
	switch d {
	case DimensionDayOfWeek, DimensionMonth, DimensionHourOfDay:
		return true
	}
	return false
}

// IsValid reports whether the dimension is one of the known grouping keys.
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionDayOfWeek, DimensionMonth, DimensionHourOfDay,
		DimensionRideableType, DimensionMemberCasual:
		return true
	}
	return false
}

// ShortName returns the compact name used in table names, summary file names
// and chart file names. Only day_of_week deviates from the column name.
func (d Dimension) ShortName() string {
	if d == DimensionDayOfWeek {
		return "weekday"
	}
	return string(d)
}

// RideLengthStats holds the reductions of ride_length (minutes) for one group.
//
// Count is the number of rows in the group. The remaining statistics skip NaN
// inputs; when a group has no usable values they are NaN, never a silent zero.
// JSON serialization renders NaN as null because JSON has no NaN literal.
type RideLengthStats struct {
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// MarshalJSON renders NaN statistics as null.
func (s RideLengthStats) MarshalJSON() ([]byte, error) {
	type jsonStats struct {
		Count  int64    `json:"count"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		StdDev *float64 `json:"std_dev"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
	}
	return json.Marshal(jsonStats{
		Count:  s.Count,
		Mean:   nanToNil(s.Mean),
		Median: nanToNil(s.Median),
		StdDev: nanToNil(s.StdDev),
		Min:    nanToNil(s.Min),
		Max:    nanToNil(s.Max),
	})
}

// UnmarshalJSON restores null statistics to NaN.
func (s *RideLengthStats) UnmarshalJSON(data []byte) error {
	type jsonStats struct {
		Count  int64    `json:"count"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		StdDev *float64 `json:"std_dev"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
	}
	var js jsonStats
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	s.Count = js.Count
	s.Mean = nilToNaN(js.Mean)
	s.Median = nilToNaN(js.Median)
	s.StdDev = nilToNaN(js.StdDev)
	s.Min = nilToNaN(js.Min)
	s.Max = nilToNaN(js.Max)
	return nil
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nilToNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// GroupKey is one dimension value of a summary row. Ordinal carries the
// calendar position for time dimensions (weekday 1-7, month 1-12, hour 0-23)
// and is zero for categorical dimensions, which order by Label.
type GroupKey struct {
	Dimension Dimension `json:"dimension"`
	Ordinal   int       `json:"ordinal,omitempty"`
	Label     string    `json:"label"`
}

// SummaryRow is the aggregate for one distinct grouping-key combination.
type SummaryRow struct {
	Keys  []GroupKey      `json:"keys"`
	Stats RideLengthStats `json:"stats"`
}

// SummaryTable is an ordered set of summary rows over a fixed list of
// grouping dimensions. Row order is stable and independent of input row
// order: calendar dimensions sort by ordinal, categorical ones by label.
type SummaryTable struct {
	Name        string       `json:"name"`
	Dimensions  []Dimension  `json:"dimensions"`
	Rows        []SummaryRow `json:"rows"`
	GeneratedAt time.Time    `json:"generated_at,omitempty"`
}

// TableName derives the canonical table name from its dimensions,
// e.g. [day_of_week member_casual] -> "by_weekday_and_member_casual".
func TableName(dims []Dimension) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = d.ShortName()
	}
	return "by_" + strings.Join(parts, "_and_")
}

// Title returns a human-readable form of the table name for chart titles
// and log lines, e.g. "by weekday and member casual".
func (t *SummaryTable) Title() string {
	return strings.ReplaceAll(t.Name, "_", " ")
}

// TotalCount sums the row counts. For a single-dimension table over a cleaned
// trip set this equals the number of cleaned trips.
func (t *SummaryTable) TotalCount() int64 {
	var total int64
	for _, row := range t.Rows {
		total += row.Stats.Count
	}
	return total
}

// RowLess is the canonical row ordering used by summarizers and exporters:
// keys compare pairwise, by ordinal for calendar dimensions and by label
// otherwise.
func RowLess(a, b SummaryRow) bool {
	n := len(a.Keys)
	if len(b.Keys) < n {
		n = len(b.Keys)
	}
	for i := 0; i < n; i++ {
		ka, kb := a.Keys[i], b.Keys[i]
		if ka.Dimension.IsCalendar() {
			if ka.Ordinal != kb.Ordinal {
				return ka.Ordinal < kb.Ordinal
			}
			continue
		}
		if ka.Label != kb.Label {
			return ka.Label < kb.Label
		}
	}
	return len(a.Keys) < len(b.Keys)
}

// ValidateSummaryTable checks structural consistency of a table: every row
// must carry one key per table dimension, in the table's dimension order.
func ValidateSummaryTable(t *SummaryTable) error {
	if t == nil {
		return fmt.Errorf("summary table cannot be nil")
	}
	if t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(t.Dimensions) == 0 {
		return fmt.Errorf("table must have at least one dimension")
	}
	for _, d := range t.Dimensions {
		if !d.IsValid() {
			return fmt.Errorf("unknown dimension %q", d)
		}
	}
	for i, row := range t.Rows {
		if len(row.Keys) != len(t.Dimensions) {
			return fmt.Errorf("row %d has %d keys, table has %d dimensions", i, len(row.Keys), len(t.Dimensions))
		}
		for j, key := range row.Keys {
			if key.Dimension != t.Dimensions[j] {
				return fmt.Errorf("row %d key %d has dimension %q, expected %q", i, j, key.Dimension, t.Dimensions[j])
			}
		}
	}
	return nil
}
