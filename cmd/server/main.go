package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"forecast_backend/internal/app/di"
	"forecast_backend/internal/app/router"
	forecasthandler "forecast_backend/internal/feature/forecast/transport/handler"
	matchhandler "forecast_backend/internal/feature/match/transport/handler"
	"forecast_backend/internal/platform/config"
	"forecast_backend/internal/platform/http/handler"
	"forecast_backend/internal/platform/logger"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close resources", "error", err)
		}
	}()

	deps := router.Deps{
		Health:    handler.NewHealthHandler(app.HealthChecks()),
		Forecast:  forecasthandler.NewForecastHandler(app.Forecast),
		Match:     matchhandler.NewMatchHandler(app.Match),
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    lg,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = app.Metrics.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT secret is not set. /v1 is served without authentication.")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
