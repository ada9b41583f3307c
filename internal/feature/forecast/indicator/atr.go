package indicator

import (
	"math"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// TrueRange returns max(high, prevClose) - min(low, prevClose) per bar.
// The first bar has no previous close and uses high - low.
func TrueRange(bars []entity.Bar) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prev := bars[i-1].Close
		tr[i] = math.Max(b.High, prev) - math.Min(b.Low, prev)
	}
	return tr
}

// AverageTrueRange is Wilder's ATR. The value at window-1 is the simple mean of the
// first window true ranges; later values are smoothed as
// atr[i] = (atr[i-1]*(window-1) + tr[i]) / window. Earlier positions are undefined.
func AverageTrueRange(bars []entity.Bar, window int) []float64 {
	atr := undefined(len(bars))
	if window < 1 || len(bars) < window {
		return atr
	}

	tr := TrueRange(bars)
	var sum float64
	for _, v := range tr[:window] {
		sum += v
	}
	atr[window-1] = sum / float64(window)

	w := float64(window)
	for i := window; i < len(tr); i++ {
		atr[i] = (atr[i-1]*(w-1) + tr[i]) / w
	}
	return atr
}
