package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, []string{"EUR/USD", "GBP/USD", "USD/JPY", "XAU/USD"}, c.Forecast.Pairs)
	assert.Equal(t, []int{1, 2, 4}, c.Forecast.Horizons)
	assert.Equal(t, "1h", c.Forecast.Interval)
	assert.Equal(t, 500, c.Forecast.OutputSize)
	assert.Equal(t, 14, c.Forecast.ATRWindow)
	assert.Equal(t, 26, c.Forecast.MACDSlow)
	assert.Equal(t, 0.001, c.Forecast.MACDThreshold)
	assert.Equal(t, int32(5), c.Forecast.PriceDecimals)
	assert.Equal(t, int64(42), c.Match.Seed)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, "https://api.twelvedata.com", c.TwelveData.BaseURL)
	assert.Empty(t, c.TwelveData.APIKey)
	assert.Equal(t, 24*time.Hour, c.Auth.TokenTTL)
}

// Load のテストは環境変数を変更するため並列実行しない。

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvTwelveDataAPIKey, "")
	t.Setenv(EnvLogLevel, "")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 100, c.Forecast.Trees)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvRedisHost, "")

	path := writeFile(t, `
server:
  addr: ":9090"
  shutdown_timeout: 3s
forecast:
  pairs: ["EUR/USD"]
  horizons: [1]
  model_ttl: 15m
redis:
  enabled: true
  port: "6380"
db:
  auto_migrate: false
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, 3*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, 60*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, []string{"EUR/USD"}, c.Forecast.Pairs)
	assert.Equal(t, []int{1}, c.Forecast.Horizons)
	assert.Equal(t, 15*time.Minute, c.Forecast.ModelTTL)
	assert.Equal(t, 14, c.Forecast.ATRWindow)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "localhost", c.Redis.Host)
	assert.Equal(t, "6380", c.Redis.Port)
	assert.False(t, c.DB.AutoMigrate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvTwelveDataAPIKey, "td-key")
	t.Setenv(EnvTwelveDataBaseURL, "http://localhost:9999/")
	t.Setenv(EnvRedisHost, "cache")
	t.Setenv(EnvRedisPort, "6390")
	t.Setenv(EnvRedisPassword, "pw")
	t.Setenv(EnvDBDriver, "postgres")
	t.Setenv(EnvDBDSN, "postgres://fx@db/forecast")
	t.Setenv(EnvJWTSecret, "jwt")
	t.Setenv(EnvLogLevel, "DEBUG")

	c, err := Load(writeFile(t, "twelvedata:\n  api_key: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "td-key", c.TwelveData.APIKey)
	assert.Equal(t, "http://localhost:9999", c.TwelveData.BaseURL)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "cache", c.Redis.Host)
	assert.Equal(t, "6390", c.Redis.Port)
	assert.Equal(t, "pw", c.Redis.Password)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "postgres://fx@db/forecast", c.DB.DSN)
	assert.Equal(t, "jwt", c.Auth.JWTSecret)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvLogLevel, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "server: [unclosed"},
		{"empty pairs", "forecast:\n  pairs: []\n"},
		{"zero horizon", "forecast:\n  horizons: [0]\n"},
		{"slow not above fast", "forecast:\n  macd_fast: 26\n  macd_slow: 12\n"},
		{"unknown driver", "db:\n  driver: mysql\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"metrics path", "metrics:\n  path: metrics\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}
