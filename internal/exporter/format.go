package exporter

import (
	"fmt"
	"math"
)

// formatFloat formats a ride-length statistic for CSV output with exactly 2
// decimal places. NaN is kept as the literal "NaN" so an undefined statistic
// stays visible and survives a read back (strconv.ParseFloat accepts it).
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}
