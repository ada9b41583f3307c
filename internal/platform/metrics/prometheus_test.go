package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()

	r := New()
	r.ForecastFailed("EUR/USD", "data_unavailable")
	r.ForecastFailed("EUR/USD", "data_unavailable")
	r.AlertFired("abnormal_volatility")
	r.UpstreamFetch("ok")
	r.UpstreamFetch("http_error")
	r.UpstreamFetch("ok")
	r.EstimateCompleted("home_win")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.forecastErrors.WithLabelValues("EUR/USD", "data_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.alertsFired.WithLabelValues("abnormal_volatility")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamFetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamFetches.WithLabelValues("http_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.matchEstimates.WithLabelValues("home_win")))
}

func TestRecorder_Duration(t *testing.T) {
	t.Parallel()

	r := New()
	r.ForecastCompleted("XAU/USD", 250*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(r.forecastDuration, "forecast_duration_seconds"))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	t.Parallel()

	// 同名メトリクスを持つ Recorder を複数生成しても panic しない
	a, b := New(), New()
	a.AlertFired("macd_signal")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.alertsFired.WithLabelValues("macd_signal")))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := New()
	r.UpstreamFetch("ok")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `upstream_fetches_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
