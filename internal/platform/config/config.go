// Package config はYAMLファイルと環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath は設定ファイルの既定パスです。
const DefaultPath = "config.yaml"

// 環境変数による上書きキー
const (
	EnvTwelveDataAPIKey  = "TWELVE_DATA_API_KEY"
	EnvTwelveDataBaseURL = "TWELVE_DATA_BASE_URL"
	EnvRedisHost         = "REDIS_HOST"
	EnvRedisPort         = "REDIS_PORT"
	EnvRedisPassword     = "REDIS_PASSWORD"
	EnvDBDriver          = "DB_DRIVER"
	EnvDBDSN             = "DB_DSN"
	EnvJWTSecret         = "JWT_SECRET"
	EnvLogLevel          = "LOG_LEVEL"
)

type Server struct {
	Addr            string        `yaml:"addr" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type Log struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json text"`
}

type TwelveData struct {
	// APIKey は設定ファイルか TWELVE_DATA_API_KEY で与えます。
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url" default:"https://api.twelvedata.com" validate:"required,url"`
	Timeout           time.Duration `yaml:"timeout" default:"10s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" default:"8" validate:"min=0"`
}

type Forecast struct {
	Pairs      []string `yaml:"pairs" default:"[\"EUR/USD\",\"GBP/USD\",\"USD/JPY\",\"XAU/USD\"]" validate:"min=1,dive,required"`
	Interval   string   `yaml:"interval" default:"1h" validate:"required"`
	OutputSize int      `yaml:"output_size" default:"500" validate:"min=1,max=5000"`
	Horizons   []int    `yaml:"horizons" default:"[1,2,4]" validate:"min=1,dive,min=1"`

	ATRWindow  int `yaml:"atr_window" default:"14" validate:"min=1"`
	MACDFast   int `yaml:"macd_fast" default:"12" validate:"min=1"`
	MACDSlow   int `yaml:"macd_slow" default:"26" validate:"gtfield=MACDFast"`
	MACDSignal int `yaml:"macd_signal" default:"9" validate:"min=1"`

	Trees int   `yaml:"trees" default:"100" validate:"min=1"`
	Seed  int64 `yaml:"seed" default:"42"`

	VolatilityMultiplier float64 `yaml:"volatility_multiplier" default:"2" validate:"gt=0"`
	MACDThreshold        float64 `yaml:"macd_threshold" default:"0.001" validate:"gte=0"`
	PriceDecimals        int32   `yaml:"price_decimals" default:"5" validate:"min=0,max=10"`

	ChartHistory int           `yaml:"chart_history" default:"4" validate:"min=1"`
	ChartHorizon int           `yaml:"chart_horizon" default:"4" validate:"min=1"`
	ModelTTL     time.Duration `yaml:"model_ttl"`
}

type Match struct {
	Trees int   `yaml:"trees" default:"100" validate:"min=1"`
	Seed  int64 `yaml:"seed" default:"42"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost"`
	Port     string `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// CacheTTL が 0 のときは次のバー確定時刻まで保持します。
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type DB struct {
	Enabled        bool          `yaml:"enabled" default:"true"`
	Driver         string        `yaml:"driver" default:"sqlite" validate:"oneof=sqlite postgres"`
	DSN            string        `yaml:"dsn"`
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name" default:"forecast.db"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"30s"`
	AutoMigrate    bool          `yaml:"auto_migrate" default:"true"`
}

type Auth struct {
	// JWTSecret が空の場合 /v1 は認証なしで公開されます。
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" default:"24h"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
	TwelveData TwelveData `yaml:"twelvedata"`
	Forecast   Forecast   `yaml:"forecast"`
	Match      Match      `yaml:"match"`
	Redis      Redis      `yaml:"redis"`
	DB         DB         `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	Metrics    Metrics    `yaml:"metrics"`
}

var validate = validator.New()

// Default は既定値のみで構成された Config を返します。
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load は .env、YAMLファイル、環境変数の順に設定を適用し検証します。
// ファイルが存在しない場合は既定値を使います。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env could not be loaded", "error", err)
	}

	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate は構造体タグに基づいて設定を検証します。
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTwelveDataAPIKey); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv(EnvTwelveDataBaseURL); v != "" {
		c.TwelveData.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvRedisHost); v != "" {
		c.Redis.Host = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv(EnvRedisPort); v != "" {
		c.Redis.Port = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(EnvDBDriver); v != "" {
		c.DB.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.DB.DSN = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}
