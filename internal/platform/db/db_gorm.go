// Package db はgormによるデータベース接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	forecastadapters "forecast_backend/internal/feature/forecast/adapters"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = time.Second

// Config はデータベースの接続設定です。DSN が指定されている場合は他の項目より優先します。
type Config struct {
	Driver         string
	DSN            string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	ConnectTimeout time.Duration
	AutoMigrate    bool
}

// Opener はDSNからgorm.DBを開きます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	switch cfg.Driver {
	case DriverPostgres:
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
	default:
		if cfg.Name == "" {
			return "forecast.db"
		}
		return cfg.Name
	}
}

// OpenerFor はドライバー名に対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case DriverSQLite, "":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ConnectWithRetry は timeout に達するまで retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate は必要なテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&forecastadapters.ForecastRunModel{})
}

// Open は設定に従ってデータベースに接続し、必要に応じてマイグレーションを実行します。
func Open(cfg Config) (*gorm.DB, error) {
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, open)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}
