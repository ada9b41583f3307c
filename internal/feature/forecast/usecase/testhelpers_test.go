package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

var baseTime = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

// trendBars は1時間ごとに open が step ずつ上がる線形トレンドのバーを返します。
func trendBars(n int, step float64) []entity.Bar {
	bars := make([]entity.Bar, n)
	for i := range bars {
		o := 1.1 + float64(i)*step
		bars[i] = entity.Bar{
			Time:  baseTime.Add(time.Duration(i) * time.Hour),
			Open:  o,
			High:  o + 0.0015,
			Low:   o - 0.0015,
			Close: o + 0.0008,
		}
	}
	return bars
}

// noisyBars は決定的な擬似ノイズを含むバーを返します。
func noisyBars(n int) []entity.Bar {
	bars := make([]entity.Bar, n)
	price := 1.08
	for i := range bars {
		swing := float64((i*7)%11-5) * 0.0004
		o := price
		c := o + swing
		hi, lo := o, c
		if c > o {
			hi, lo = c, o
		}
		bars[i] = entity.Bar{
			Time:  baseTime.Add(time.Duration(i) * time.Hour),
			Open:  o,
			High:  hi + 0.0006,
			Low:   lo - 0.0005,
			Close: c,
		}
		price = c
	}
	return bars
}

// shortConfig は短い指標ウィンドウの設定です。20本程度の系列で使います。
func shortConfig() Config {
	cfg := DefaultConfig()
	cfg.ATRWindow = 3
	cfg.MACDFast = 3
	cfg.MACDSlow = 6
	cfg.MACDSignal = 3
	cfg.Trees = 20
	return cfg
}

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	GetTimeSeriesFunc  func(ctx context.Context, pair, interval string, outputsize int) ([]entity.Bar, error)
	GetTimeSeriesCalls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, pair, interval string, outputsize int) ([]entity.Bar, error) {
	m.GetTimeSeriesCalls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, pair, interval, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// mockRunRepository is a mock implementation of the RunRepository interface.
type mockRunRepository struct {
	SaveFunc        func(ctx context.Context, report entity.Report) error
	ListRecentFunc  func(ctx context.Context, pair string, limit int) ([]entity.Report, error)
	SaveCalls       int
	ListRecentCalls int
}

func (m *mockRunRepository) Save(ctx context.Context, report entity.Report) error {
	m.SaveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, report)
	}
	return nil
}

func (m *mockRunRepository) ListRecent(ctx context.Context, pair string, limit int) ([]entity.Report, error) {
	m.ListRecentCalls++
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, pair, limit)
	}
	return nil, nil
}

// mockRecorder records metric calls.
type mockRecorder struct {
	mu        sync.Mutex
	completed []string
	failed    map[string]string
	alerts    []string
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{failed: map[string]string{}}
}

func (m *mockRecorder) ForecastCompleted(pair string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, pair)
}

func (m *mockRecorder) ForecastFailed(pair, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[pair] = reason
}

func (m *mockRecorder) AlertFired(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, kind)
}

// countingFactory wraps a RegressorFactory and counts created models.
type countingFactory struct {
	mu    sync.Mutex
	calls int
	inner RegressorFactory
}

func (f *countingFactory) New() Regressor {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.inner()
}

func (f *countingFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
