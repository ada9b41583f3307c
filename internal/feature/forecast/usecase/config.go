// Package usecase は為替・金属ペアの価格レンジ予測パイプラインを実装します。
package usecase

import "time"

const (
	// DefaultHistoryLimit は History の件数指定がない場合の返却件数です。
	DefaultHistoryLimit = 20
	// MaxHistoryLimit は History の最大返却件数です。
	MaxHistoryLimit = 100
)

// Config はパイプラインのパラメータです。
type Config struct {
	Pairs      []string
	Interval   string
	OutputSize int
	Horizons   []int

	ATRWindow  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	Trees int
	Seed  int64

	VolatilityMultiplier float64
	MACDThreshold        float64
	PriceDecimals        int32

	ChartHistory int
	ChartHorizon int

	// ModelTTL > 0 のとき (pair, horizon) ごとに学習済みモデルを再利用します。
	// 0 は毎回再学習します。
	ModelTTL time.Duration
}

// DefaultConfig は既定値の Config を返します。
func DefaultConfig() Config {
	return Config{
		Pairs:                []string{"EUR/USD", "GBP/USD", "USD/JPY", "XAU/USD"},
		Interval:             "1h",
		OutputSize:           500,
		Horizons:             []int{1, 2, 4},
		ATRWindow:            14,
		MACDFast:             12,
		MACDSlow:             26,
		MACDSignal:           9,
		Trees:                100,
		Seed:                 42,
		VolatilityMultiplier: 2,
		MACDThreshold:        0.001,
		PriceDecimals:        5,
		ChartHistory:         4,
		ChartHorizon:         4,
	}
}

func (c Config) hasPair(pair string) bool {
	for _, p := range c.Pairs {
		if p == pair {
			return true
		}
	}
	return false
}
