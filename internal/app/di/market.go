// Package di はアプリケーションのコンポーネントを組み立てるファクトリーを提供します。
package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"forecast_backend/internal/feature/forecast/usecase"
	"forecast_backend/internal/platform/cache"
	"forecast_backend/internal/platform/config"
	"forecast_backend/internal/platform/externalapi/twelvedata"
	infrahttp "forecast_backend/internal/platform/http"
	"forecast_backend/internal/shared/ratelimiter"
)

// NewMarket はHTTPクライアントとレートリミッターを設定した TwelveDataMarket を生成します。
func NewMarket(cfg config.TwelveData, rec twelvedata.FetchRecorder) *twelvedata.TwelveDataMarket {
	if cfg.APIKey == "" {
		slog.Warn("Twelve Data API key is not set; upstream requests will be rejected")
	}

	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter("twelvedata", cfg.RequestsPerMinute, time.Minute)

	opts := []twelvedata.Option{twelvedata.WithLimiter(limiter)}
	if rec != nil {
		opts = append(opts, twelvedata.WithFetchRecorder(rec))
	}

	return twelvedata.NewTwelveDataMarket(twelvedata.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, httpClient, opts...)
}

// NewMarketRepository は Redis が利用可能であればキャッシュでラップした MarketRepository を返します。
// それ以外は inner をそのまま返し、キャッシュは nil になります。
func NewMarketRepository(rdb *redis.Client, cfg config.Redis, inner usecase.MarketRepository) (usecase.MarketRepository, *cache.CachingMarketRepository) {
	if rdb == nil {
		return inner, nil
	}
	c := cache.NewCachingMarketRepository(rdb, cfg.CacheTTL, inner, "bars")
	return c, c
}
