// Package indicator computes technical indicators over price series.
//
// Every function returns a slice aligned with its input. Positions without
// enough history hold math.NaN(); callers drop those rows with IsDefined.
package indicator

import (
	"math"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// IsDefined reports whether v carries a value (is not NaN).
func IsDefined(v float64) bool { return !math.IsNaN(v) }

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Closes extracts closing prices.
func Closes(bars []entity.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Mean returns the average of the defined values and false when there are none.
func Mean(values []float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if IsDefined(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
