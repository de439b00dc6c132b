package analytics

import (
	"math"
	"sort"

	"cyclecli/pkg/contracts/domain"
)

// The reductions in this file describe the ride lengths of one summary
// group. Inputs may contain NaN and every reduction skips those values; a
// reduction left with no usable value reports NaN so an undefined statistic
// stays visibly undefined instead of collapsing to a silent zero.

// usable returns the non-NaN values as a fresh slice, leaving the caller's
// buffer untouched.
func usable(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the arithmetic mean of the usable values.
func Mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Median returns the middle usable value, averaging the two middle values
// when their count is even.
func Median(values []float64) float64 {
	sorted := usable(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// StdDev returns the sample standard deviation of the usable values. A
// single observation carries no spread to estimate, so fewer than two usable
// values report NaN.
func StdDev(values []float64) float64 {
	vals := usable(values)
	if len(vals) < 2 {
		return math.NaN()
	}

	mean := Mean(vals)
	var sumSquaredDiff float64
	for _, v := range vals {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(vals)-1))
}

// Min returns the smallest usable value.
func Min(values []float64) float64 {
	min := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest usable value.
func Max(values []float64) float64 {
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Describe bundles the reductions for one group of ride lengths. Count is
// the number of rows in the group, NaN rows included, so per-group counts
// across a table sum to the size of the summarized set.
func Describe(values []float64) domain.RideLengthStats {
	return domain.RideLengthStats{
		Count:  int64(len(values)),
		Mean:   Mean(values),
		Median: Median(values),
		StdDev: StdDev(values),
		Min:    Min(values),
		Max:    Max(values),
	}
}
