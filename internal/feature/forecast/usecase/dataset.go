package usecase

import (
	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/indicator"
)

// FeatureNames は特徴量の列順です。
var FeatureNames = []string{"open", "average_true_range", "macd", "macd_signal"}

// featureSet はバーごとの特徴量と指標系列です。rows[i] は bars[i] に対応します。
type featureSet struct {
	rows   [][]float64
	atr    []float64
	macd   []float64
	signal []float64
}

func (c Config) buildFeatures(bars []entity.Bar) featureSet {
	atr := indicator.AverageTrueRange(bars, c.ATRWindow)
	macd, signal := indicator.MACD(indicator.Closes(bars), c.MACDFast, c.MACDSlow, c.MACDSignal)

	rows := make([][]float64, len(bars))
	for i, b := range bars {
		rows[i] = []float64{b.Open, atr[i], macd[i], signal[i]}
	}
	return featureSet{rows: rows, atr: atr, macd: macd, signal: signal}
}

func complete(row []float64) bool {
	for _, v := range row {
		if !indicator.IsDefined(v) {
			return false
		}
	}
	return true
}

// TrainingRow は1ホライズン分の学習行です。Index は元のバー位置です。
type TrainingRow struct {
	Index     int
	Features  []float64
	DeltaHigh float64 // high[t+h] - open[t]
	DeltaLow  float64 // low[t+h] - open[t]
}

// trainingRows は特徴量とターゲットが揃った行を返します。
// 最新バーは予測入力なので含めません。
func trainingRows(bars []entity.Bar, fs featureSet, h int) []TrainingRow {
	n := len(bars)
	out := make([]TrainingRow, 0, n)
	for t := 0; t < n-1; t++ {
		if t+h >= n || !complete(fs.rows[t]) {
			continue
		}
		out = append(out, TrainingRow{
			Index:     t,
			Features:  fs.rows[t],
			DeltaHigh: bars[t+h].High - bars[t].Open,
			DeltaLow:  bars[t+h].Low - bars[t].Open,
		})
	}
	return out
}

func split(rows []TrainingRow) (x [][]float64, yHigh, yLow []float64) {
	x = make([][]float64, len(rows))
	yHigh = make([]float64, len(rows))
	yLow = make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Features
		yHigh[i] = r.DeltaHigh
		yLow[i] = r.DeltaLow
	}
	return x, yHigh, yLow
}
