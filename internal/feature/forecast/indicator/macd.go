package indicator

// EMA is the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first defined input. Leading undefined inputs are skipped; the
// output is undefined until span defined observations have been seen.
func EMA(values []float64, span int) []float64 {
	out := undefined(len(values))
	if span < 1 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	var (
		cur  float64
		seen int
	)
	for i, v := range values {
		if !IsDefined(v) {
			if seen >= span {
				out[i] = cur
			}
			continue
		}
		if seen == 0 {
			cur = v
		} else {
			cur = alpha*v + (1-alpha)*cur
		}
		seen++
		if seen >= span {
			out[i] = cur
		}
	}
	return out
}

// MACD returns the MACD line (EMA(fast) - EMA(slow)) and its signal line
// (EMA(signal) of the MACD line).
func MACD(closes []float64, fast, slow, signal int) (line, sig []float64) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line = make([]float64, len(closes))
	for i := range closes {
		// NaN propagates
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig = EMA(line, signal)
	return line, sig
}
