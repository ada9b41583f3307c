package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast_backend/internal/feature/forecast/domain"
)

type fakeLimiter struct {
	calls int
	err   error
}

func (f *fakeLimiter) Wait(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeRecorder) UpstreamFetch(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewTwelveDataMarket(t *testing.T) {
	t.Parallel()

	market := NewTwelveDataMarket(Config{APIKey: "test-key"}, &http.Client{})

	require.NotNil(t, market)
	assert.Equal(t, "test-key", market.cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, market.cfg.BaseURL)
}

func TestTwelveDataMarket_GetTimeSeries_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "EUR/USD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "500", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"meta": {"symbol": "EUR/USD", "interval": "1h", "type": "Physical Currency"},
			"status": "ok",
			"values": [
				{"datetime": "2025-03-06 10:00:00", "open": "1.08310", "high": "1.08420", "low": "1.08250", "close": "1.08390"},
				{"datetime": "2025-03-06 09:00:00", "open": "1.08200", "high": "1.08330", "low": "1.08150", "close": "1.08310"},
				{"datetime": "2025-03-06", "open": "1.08000", "high": "1.08100", "low": "1.07900", "close": "1.08050", "volume": "1200"}
			]
		}`))
	}))
	defer server.Close()

	limiter := &fakeLimiter{}
	rec := &fakeRecorder{}
	market := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL + "/"}, server.Client(),
		WithLimiter(limiter), WithFetchRecorder(rec))

	bars, err := market.GetTimeSeries(context.Background(), "EUR/USD", "1h", 500)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	// 昇順に並べ替えられる
	assert.True(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC).Equal(bars[0].Time))
	assert.True(t, time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC).Equal(bars[2].Time))

	assert.Equal(t, 1.08000, bars[0].Open)
	assert.Equal(t, 1200.0, bars[0].Volume)
	assert.Equal(t, 0.0, bars[2].Volume)
	assert.Equal(t, 1.08420, bars[2].High)
	assert.Equal(t, 1.08250, bars[2].Low)
	assert.Equal(t, 1.08390, bars[2].Close)

	assert.Equal(t, 1, limiter.calls)
	assert.Equal(t, []string{"ok"}, rec.outcomes)
}

func TestTwelveDataMarket_GetTimeSeries_DataUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome string
		wantMsg     string
	}{
		{"missing values", http.StatusOK, `{"status":"ok","meta":{"symbol":"EUR/USD"}}`, "missing_values", "no values"},
		{"api error", http.StatusOK, `{"status":"error","code":401,"message":"Invalid API key"}`, "api_error", "Invalid API key"},
		{"invalid json", http.StatusOK, `{invalid json`, "invalid_body", "decode"},
		{"bad request", http.StatusBadRequest, ``, "http_error", "twelvedata http 400"},
		{"unauthorized", http.StatusUnauthorized, ``, "http_error", "twelvedata http 401"},
		{"too many requests", http.StatusTooManyRequests, ``, "http_error", "twelvedata http 429"},
		{"internal server error", http.StatusInternalServerError, ``, "http_error", "twelvedata http 500"},
		{"invalid number", http.StatusOK, `{"status":"ok","values":[{"datetime":"2025-03-06","open":"abc","high":"1","low":"1","close":"1"}]}`, "invalid_body", `parse open "abc"`},
		{"invalid datetime", http.StatusOK, `{"status":"ok","values":[{"datetime":"06/03/2025","open":"1","high":"1","low":"1","close":"1"}]}`, "invalid_body", "parse time"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := jsonServer(t, tt.status, tt.body)
			rec := &fakeRecorder{}
			market := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), WithFetchRecorder(rec))

			bars, err := market.GetTimeSeries(context.Background(), "EUR/USD", "1h", 500)
			assert.Nil(t, bars)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, []string{tt.wantOutcome}, rec.outcomes)
		})
	}
}

func TestTwelveDataMarket_GetTimeSeries_EmptyValues(t *testing.T) {
	t.Parallel()

	server := jsonServer(t, http.StatusOK, `{"status":"ok","values":[]}`)
	market := NewTwelveDataMarket(Config{BaseURL: server.URL}, server.Client())

	bars, err := market.GetTimeSeries(context.Background(), "EUR/USD", "1h", 500)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestTwelveDataMarket_GetTimeSeries_LimiterError(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	limiter := &fakeLimiter{err: context.Canceled}
	market := NewTwelveDataMarket(Config{BaseURL: server.URL}, server.Client(), WithLimiter(limiter))

	_, err := market.GetTimeSeries(context.Background(), "EUR/USD", "1h", 500)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called, "no request after limiter failure")
}

func TestTwelveDataMarket_GetTimeSeries_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &fakeRecorder{}
	market := NewTwelveDataMarket(Config{BaseURL: url}, &http.Client{Timeout: time.Second}, WithFetchRecorder(rec))

	_, err := market.GetTimeSeries(context.Background(), "EUR/USD", "1h", 500)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDataUnavailable))
	assert.Equal(t, []string{"network_error"}, rec.outcomes)
}

func TestTwelveDataMarket_GetTimeSeries_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{BaseURL: server.URL}, server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := market.GetTimeSeries(ctx, "EUR/USD", "1h", 500)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context deadline exceeded"))
}
