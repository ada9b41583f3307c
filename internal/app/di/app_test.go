package di

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast_backend/internal/feature/forecast/usecase"
	"forecast_backend/internal/platform/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.DB.DSN = filepath.Join(t.TempDir(), "forecast.db")
	cfg.DB.ConnectTimeout = time.Second
	return cfg
}

func TestNewApp_SQLiteWithoutRedis(t *testing.T) {
	t.Parallel()

	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Forecast)
	assert.NotNil(t, app.Match)
	assert.NotNil(t, app.DB)
	assert.Nil(t, app.Redis)
	assert.Nil(t, app.Cache)
	assert.Equal(t, []string{"EUR/USD", "GBP/USD", "USD/JPY", "XAU/USD"}, app.Forecast.Pairs())
	assert.Len(t, app.Match.Leagues(), 10)

	checks := app.HealthChecks()
	require.Contains(t, checks, "db")
	assert.NotContains(t, checks, "redis")
	assert.NoError(t, checks["db"](context.Background()))

	// 保存先が設定されていれば履歴は空で返る
	runs, err := app.Forecast.History(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNewApp_DatabaseDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.DB.Enabled = false

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Empty(t, app.HealthChecks())
}

func TestNewApp_RedisUnavailableFallsBack(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = "1"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Redis)
	assert.Nil(t, app.Cache)
}

func TestNewMarketRepository_NoRedis(t *testing.T) {
	t.Parallel()

	inner := NewMarket(config.TwelveData{BaseURL: "http://localhost"}, nil)
	repo, cached := NewMarketRepository(nil, config.Redis{}, inner)
	assert.Same(t, usecase.MarketRepository(inner), repo)
	assert.Nil(t, cached)
}

func TestForecastConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Forecast.ModelTTL = time.Minute
	got := ForecastConfig(cfg.Forecast)

	want := usecase.DefaultConfig()
	want.ModelTTL = time.Minute
	assert.Equal(t, want, got)
}
