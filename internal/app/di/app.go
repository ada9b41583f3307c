package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	forecastadapters "forecast_backend/internal/feature/forecast/adapters"
	forecastusecase "forecast_backend/internal/feature/forecast/usecase"
	matchadapters "forecast_backend/internal/feature/match/adapters"
	matchusecase "forecast_backend/internal/feature/match/usecase"
	"forecast_backend/internal/platform/cache"
	"forecast_backend/internal/platform/config"
	"forecast_backend/internal/platform/db"
	"forecast_backend/internal/platform/http/handler"
	jwtmw "forecast_backend/internal/platform/jwt"
	"forecast_backend/internal/platform/metrics"
	infraredis "forecast_backend/internal/platform/redis"
)

// App は組み立て済みのユースケースとインフラ資源をまとめたものです。
type App struct {
	Config   *config.Config
	Metrics  *metrics.Recorder
	Forecast *forecastusecase.ForecastUsecase
	Match    *matchusecase.MatchUsecase
	Tokens   *jwtmw.TokenGenerator

	// Cache は Redis 無効時に nil です。
	Cache *cache.CachingMarketRepository
	DB    *gorm.DB
	Redis *redis.Client
}

// NewApp は設定からアプリケーション全体を組み立てます。
// Redis に接続できない場合はキャッシュなしで起動します。
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Tokens:  jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	if cfg.Redis.Enabled {
		rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			a.Redis = rdb
		}
	}

	var forecastOpts []forecastusecase.Option
	if cfg.DB.Enabled {
		gdb, err := db.Open(db.Config{
			Driver:         cfg.DB.Driver,
			DSN:            cfg.DB.DSN,
			Host:           cfg.DB.Host,
			Port:           cfg.DB.Port,
			User:           cfg.DB.User,
			Password:       cfg.DB.Password,
			Name:           cfg.DB.Name,
			SSLMode:        cfg.DB.SSLMode,
			ConnectTimeout: cfg.DB.ConnectTimeout,
			AutoMigrate:    cfg.DB.AutoMigrate,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.DB = gdb
		forecastOpts = append(forecastOpts, forecastusecase.WithRunRepository(forecastadapters.NewRunRepository(gdb)))
	}

	market, cached := NewMarketRepository(a.Redis, cfg.Redis, NewMarket(cfg.TwelveData, a.Metrics))
	a.Cache = cached

	forecastOpts = append(forecastOpts, forecastusecase.WithRecorder(a.Metrics))
	a.Forecast = forecastusecase.NewForecastUsecase(ForecastConfig(cfg.Forecast), market, forecastOpts...)

	a.Match = matchusecase.NewMatchUsecase(
		matchusecase.Config{Trees: cfg.Match.Trees, Seed: cfg.Match.Seed},
		matchadapters.NewLeagueCatalog(matchadapters.DefaultLeagues()),
		matchusecase.NewRandomSource(cfg.Match.Seed),
		matchusecase.WithRecorder(a.Metrics),
	)

	return a, nil
}

// ForecastConfig は設定ファイルの値をパイプラインの Config に変換します。
func ForecastConfig(c config.Forecast) forecastusecase.Config {
	return forecastusecase.Config{
		Pairs:                append([]string(nil), c.Pairs...),
		Interval:             c.Interval,
		OutputSize:           c.OutputSize,
		Horizons:             append([]int(nil), c.Horizons...),
		ATRWindow:            c.ATRWindow,
		MACDFast:             c.MACDFast,
		MACDSlow:             c.MACDSlow,
		MACDSignal:           c.MACDSignal,
		Trees:                c.Trees,
		Seed:                 c.Seed,
		VolatilityMultiplier: c.VolatilityMultiplier,
		MACDThreshold:        c.MACDThreshold,
		PriceDecimals:        c.PriceDecimals,
		ChartHistory:         c.ChartHistory,
		ChartHorizon:         c.ChartHorizon,
		ModelTTL:             c.ModelTTL,
	}
}

// HealthChecks は /healthz 用の依存チェックを返します。
func (a *App) HealthChecks() map[string]handler.Check {
	checks := map[string]handler.Check{}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	if a.DB != nil {
		checks["db"] = func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}

// Close は保持している接続を閉じます。
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close db: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
