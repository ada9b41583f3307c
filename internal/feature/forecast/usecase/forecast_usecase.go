package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"forecast_backend/internal/feature/forecast/domain"
	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/indicator"
	"forecast_backend/internal/shared/forest"
)

// ForecastRequest は1回の予測リクエストです。
type ForecastRequest struct {
	Pair string
	AsOf string // 任意。レポートにそのまま返し、計算には使いません
}

// ForecastUsecase は価格取得 → 指標計算 → 学習 → 予測 → アラート判定を行います。
type ForecastUsecase struct {
	cfg          Config
	market       MarketRepository
	runs         RunRepository
	newRegressor RegressorFactory
	metrics      Recorder
	cache        *modelCache
	now          func() time.Time
}

// Option は ForecastUsecase の任意の依存を設定します。
type Option func(*ForecastUsecase)

// WithRunRepository は予測結果の保存先を設定します。
func WithRunRepository(runs RunRepository) Option {
	return func(u *ForecastUsecase) { u.runs = runs }
}

// WithRecorder はメトリクスの記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(u *ForecastUsecase) { u.metrics = r }
}

// WithRegressorFactory は回帰モデルの生成方法を差し替えます。
func WithRegressorFactory(f RegressorFactory) Option {
	return func(u *ForecastUsecase) { u.newRegressor = f }
}

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *ForecastUsecase) { u.now = now }
}

// NewForecastUsecase は ForecastUsecase を生成します。既定の回帰モデルはランダムフォレストです。
func NewForecastUsecase(cfg Config, market MarketRepository, opts ...Option) *ForecastUsecase {
	u := &ForecastUsecase{
		cfg:     cfg,
		market:  market,
		metrics: nopRecorder{},
		now:     time.Now,
	}
	u.newRegressor = func() Regressor {
		return forest.NewRegressor(forest.Config{Trees: cfg.Trees, Seed: cfg.Seed})
	}
	for _, opt := range opts {
		opt(u)
	}
	u.cache = newModelCache(cfg.ModelTTL, u.now)
	return u
}

// Pairs は設定された通貨ペアの一覧を返します。
func (u *ForecastUsecase) Pairs() []string {
	return append([]string(nil), u.cfg.Pairs...)
}

// Forecast は指定ペアの価格バーを取得して予測レポートを作成します。
// 取得に失敗した場合は以降の計算を行いません。
func (u *ForecastUsecase) Forecast(ctx context.Context, req ForecastRequest) (*entity.Report, error) {
	start := u.now()

	if !u.cfg.hasPair(req.Pair) {
		u.metrics.ForecastFailed(req.Pair, failureReason(domain.ErrUnknownPair))
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPair, req.Pair)
	}

	bars, err := u.market.GetTimeSeries(ctx, req.Pair, u.cfg.Interval, u.cfg.OutputSize)
	if err != nil {
		if !errors.Is(err, domain.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
		}
		u.metrics.ForecastFailed(req.Pair, failureReason(err))
		return nil, fmt.Errorf("fetch %s: %w", req.Pair, err)
	}

	report, err := u.Analyze(req.Pair, bars)
	if err != nil {
		u.metrics.ForecastFailed(req.Pair, failureReason(err))
		return nil, err
	}
	report.AsOf = req.AsOf

	if u.runs != nil {
		// 履歴の保存はベストエフォート
		if err := u.runs.Save(ctx, *report); err != nil {
			slog.Warn("failed to save forecast run", "pair", req.Pair, "id", report.ID, "error", err)
		}
	}

	for _, a := range report.Alerts {
		u.metrics.AlertFired(string(a.Kind))
	}
	u.metrics.ForecastCompleted(req.Pair, u.now().Sub(start))
	slog.Info("forecast completed",
		"pair", req.Pair,
		"bars", len(bars),
		"alerts", len(report.Alerts),
		"elapsed", u.now().Sub(start),
	)
	return report, nil
}

// Analyze は与えられた価格バーに対してパイプラインを実行します。ネットワークには触れません。
// bars は時刻順に並べ替えたコピーを使用します。
func (u *ForecastUsecase) Analyze(pair string, bars []entity.Bar) (*entity.Report, error) {
	sorted := append([]entity.Bar(nil), bars...)
	entity.SortBars(sorted)

	n := len(sorted)
	if n == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", domain.ErrInsufficientHistory, pair)
	}

	fs := u.cfg.buildFeatures(sorted)
	last := n - 1
	if !complete(fs.rows[last]) {
		return nil, fmt.Errorf("%w: latest bar of %s lacks indicator history (%d bars)", domain.ErrInsufficientHistory, pair, n)
	}
	openNow := sorted[last].Open

	preds := make([]entity.Prediction, 0, len(u.cfg.Horizons))
	for _, h := range u.cfg.Horizons {
		rows := trainingRows(sorted, fs, h)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: no training rows for %s at horizon %d", domain.ErrInsufficientHistory, pair, h)
		}

		high, low, err := u.models(pair, h, rows)
		if err != nil {
			return nil, fmt.Errorf("fit models for %s horizon %d: %w", pair, h, err)
		}
		dHigh, err := high.Predict(fs.rows[last])
		if err != nil {
			return nil, fmt.Errorf("predict high for %s horizon %d: %w", pair, h, err)
		}
		dLow, err := low.Predict(fs.rows[last])
		if err != nil {
			return nil, fmt.Errorf("predict low for %s horizon %d: %w", pair, h, err)
		}

		preds = append(preds, entity.Prediction{
			Horizon:      h,
			PredictedMax: roundTo(openNow+dHigh, u.cfg.PriceDecimals),
			PredictedMin: roundTo(openNow+dLow, u.cfg.PriceDecimals),
		})
	}

	meanATR, _ := indicator.Mean(fs.atr)
	alerts := u.cfg.evaluateAlerts(preds, meanATR, fs.macd[last], fs.signal[last])

	chart, err := u.cfg.buildChart(sorted, preds)
	if err != nil {
		return nil, err
	}

	return &entity.Report{
		ID:          uuid.NewString(),
		Pair:        pair,
		Interval:    u.cfg.Interval,
		OpenNow:     openNow,
		GeneratedAt: u.now().UTC(),
		Predictions: preds,
		Alerts:      alerts,
		Chart:       chart,
	}, nil
}

// History は保存済みの予測結果を新しい順に返します。pair が空の場合は全ペアを対象にします。
func (u *ForecastUsecase) History(ctx context.Context, pair string, limit int) ([]entity.Report, error) {
	if pair != "" && !u.cfg.hasPair(pair) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPair, pair)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if u.runs == nil {
		return []entity.Report{}, nil
	}
	return u.runs.ListRecent(ctx, pair, limit)
}

// models は (pair, h) の高値・安値モデルを返します。キャッシュが有効で新しいものがあれば再利用します。
func (u *ForecastUsecase) models(pair string, h int, rows []TrainingRow) (Regressor, Regressor, error) {
	key := modelKey{pair: pair, horizon: h}
	if fm, ok := u.cache.get(key); ok {
		return fm.high, fm.low, nil
	}

	x, yHigh, yLow := split(rows)
	high := u.newRegressor()
	if err := high.Fit(x, yHigh); err != nil {
		return nil, nil, err
	}
	low := u.newRegressor()
	if err := low.Fit(x, yLow); err != nil {
		return nil, nil, err
	}

	u.cache.put(key, fittedModels{high: high, low: low, fittedAt: u.now()})
	return high, low, nil
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownPair):
		return "unknown_pair"
	case errors.Is(err, domain.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, domain.ErrInsufficientHistory):
		return "insufficient_history"
	default:
		return "internal"
	}
}
