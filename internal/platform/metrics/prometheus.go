// Package metrics はPrometheusによるメトリクス記録を提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	forecastusecase "forecast_backend/internal/feature/forecast/usecase"
	matchusecase "forecast_backend/internal/feature/match/usecase"
	"forecast_backend/internal/platform/externalapi/twelvedata"
)

// Recorder は専用レジストリを持つPrometheusメトリクスの記録先です。
type Recorder struct {
	registry         *prometheus.Registry
	forecastDuration *prometheus.HistogramVec
	forecastErrors   *prometheus.CounterVec
	alertsFired      *prometheus.CounterVec
	upstreamFetches  *prometheus.CounterVec
	matchEstimates   *prometheus.CounterVec
}

var (
	_ forecastusecase.Recorder = (*Recorder)(nil)
	_ matchusecase.Recorder    = (*Recorder)(nil)
	_ twelvedata.FetchRecorder = (*Recorder)(nil)
)

// New は新しいレジストリにメトリクスを登録した Recorder を生成します。
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		forecastDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_duration_seconds",
				Help:    "Duration of successful forecast pipeline runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pair"},
		),
		forecastErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_errors_total",
				Help: "Failed forecast runs by reason",
			},
			[]string{"pair", "reason"},
		),
		alertsFired: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_alerts_total",
				Help: "Alerts raised by forecast runs",
			},
			[]string{"kind"},
		),
		upstreamFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_fetches_total",
				Help: "Market data provider calls by outcome",
			},
			[]string{"outcome"},
		),
		matchEstimates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_estimates_total",
				Help: "Match outcome estimates by recommendation",
			},
			[]string{"recommendation"},
		),
	}
}

func (r *Recorder) ForecastCompleted(pair string, elapsed time.Duration) {
	r.forecastDuration.WithLabelValues(pair).Observe(elapsed.Seconds())
}

func (r *Recorder) ForecastFailed(pair, reason string) {
	r.forecastErrors.WithLabelValues(pair, reason).Inc()
}

func (r *Recorder) AlertFired(kind string) {
	r.alertsFired.WithLabelValues(kind).Inc()
}

func (r *Recorder) UpstreamFetch(outcome string) {
	r.upstreamFetches.WithLabelValues(outcome).Inc()
}

func (r *Recorder) EstimateCompleted(recommendation string) {
	r.matchEstimates.WithLabelValues(recommendation).Inc()
}

// Registry は内部レジストリを返します。
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler は /metrics 用のHTTPハンドラーを返します。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
