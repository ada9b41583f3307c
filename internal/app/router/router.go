// Package router はHTTPルーティングを定義します。
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	forecasthandler "forecast_backend/internal/feature/forecast/transport/handler"
	matchhandler "forecast_backend/internal/feature/match/transport/handler"
	"forecast_backend/internal/platform/http/handler"
	"forecast_backend/internal/platform/http/middleware"
	jwtmw "forecast_backend/internal/platform/jwt"
)

// Deps はルーターが必要とするハンドラーと設定です。
type Deps struct {
	Health   *handler.HealthHandler
	Forecast *forecasthandler.ForecastHandler
	Match    *matchhandler.MatchHandler

	// Metrics が nil の場合 /metrics は公開しません。
	Metrics     http.Handler
	MetricsPath string

	// JWTSecret が空の場合 /v1 は認証なしで公開されます。
	JWTSecret string
	Logger    *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", d.Health.Health)
	r.HEAD("/healthz", d.Health.Health)
	r.OPTIONS("/healthz", d.Health.Health)

	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(d.Metrics))
	}

	v1 := r.Group("/v1")
	if d.JWTSecret != "" {
		// リクエストヘッダーに JWT が必要になる
		v1.Use(jwtmw.AuthRequired(d.JWTSecret))
	}
	{
		v1.GET("/pairs", d.Forecast.ListPairs)
		v1.GET("/forecast", d.Forecast.GetForecast)
		v1.GET("/forecast/history", d.Forecast.GetHistory)

		v1.GET("/leagues", d.Match.ListLeagues)
		v1.GET("/leagues/:code/fixtures", d.Match.ListFixtures)
		v1.POST("/match/estimate", d.Match.Estimate)
	}

	return r
}
