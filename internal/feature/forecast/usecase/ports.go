package usecase

import (
	"context"
	"time"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// MarketRepository は価格バーを取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, pair, interval string, outputsize int) ([]entity.Bar, error)
}

// RunRepository は予測結果の履歴を永続化します。
type RunRepository interface {
	Save(ctx context.Context, report entity.Report) error
	ListRecent(ctx context.Context, pair string, limit int) ([]entity.Report, error)
}

// Regressor は1つのターゲットを予測する回帰モデルです。
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(x []float64) (float64, error)
}

// RegressorFactory は未学習の Regressor を生成します。
type RegressorFactory func() Regressor

// Recorder は予測の実行結果をメトリクスとして記録します。
type Recorder interface {
	ForecastCompleted(pair string, elapsed time.Duration)
	ForecastFailed(pair, reason string)
	AlertFired(kind string)
}

type nopRecorder struct{}

func (nopRecorder) ForecastCompleted(string, time.Duration) {}
func (nopRecorder) ForecastFailed(string, string)           {}
func (nopRecorder) AlertFired(string)                       {}
