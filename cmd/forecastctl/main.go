// Command forecastctl は予測パイプラインと試合結果推定をコマンドラインから実行します。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"forecast_backend/internal/app/di"
	forecastentity "forecast_backend/internal/feature/forecast/domain/entity"
	forecastusecase "forecast_backend/internal/feature/forecast/usecase"
	matchadapters "forecast_backend/internal/feature/match/adapters"
	matchusecase "forecast_backend/internal/feature/match/usecase"
	"forecast_backend/internal/platform/config"
	jwtmw "forecast_backend/internal/platform/jwt"
	"forecast_backend/internal/platform/logger"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forecastctl",
		Short: "FX range forecasts and match outcome estimates",
		Long: `forecastctl runs the forecast pipeline and the match estimator locally.

Examples:
  forecastctl forecast --pair EUR/USD
  forecastctl forecast --pair EUR/USD,XAU/USD --format json
  forecastctl match --league PL --match "Arsenal vs Chelsea"
  forecastctl token --subject dashboard --ttl 720h`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "show debug logs")

	root.AddCommand(
		newForecastCmd(),
		newMatchCmd(),
		newPairsCmd(),
		newLeaguesCmd(),
		newTokenCmd(),
	)
	return root
}

// loadConfig は設定を読み込み、CLI向けのロガーを初期化します。
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	if _, err := logger.Init(level, "text"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newForecastCmd() *cobra.Command {
	var (
		pairs   []string
		format  string
		date    string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast high/low ranges for one or more pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if date != "" {
				if _, err := time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			app, err := di.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if len(pairs) == 0 {
				pairs = app.Forecast.Pairs()
			}

			if refresh && app.Cache != nil {
				for _, p := range pairs {
					if err := app.Cache.Invalidate(ctx, p); err != nil {
						slog.Warn("cache invalidation failed", "pair", p, "error", err)
					}
				}
			}

			reports, failed := runForecasts(ctx, app.Forecast, pairs, date, cmd.ErrOrStderr())
			for _, f := range failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.pair, f.err)
			}
			if err := renderReports(cmd.OutOrStdout(), reports, format, cfg.Forecast.PriceDecimals); err != nil {
				return err
			}
			if len(reports) == 0 {
				return errors.New("no forecast succeeded")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&pairs, "pair", nil, "pairs to forecast, comma-separated (default: all configured pairs)")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json")
	cmd.Flags().StringVar(&date, "date", "", "as-of date (YYYY-MM-DD), echoed in the report")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached bars before fetching")
	return cmd
}

type forecaster interface {
	Forecast(ctx context.Context, req forecastusecase.ForecastRequest) (*forecastentity.Report, error)
}

type pairError struct {
	pair string
	err  error
}

// runForecasts は各ペアを順に予測します。複数ペアの場合は進捗バーを表示します。
func runForecasts(ctx context.Context, uc forecaster, pairs []string, date string, progress io.Writer) ([]forecastentity.Report, []pairError) {
	var bar *progressbar.ProgressBar
	if len(pairs) > 1 {
		bar = progressbar.NewOptions(len(pairs),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Forecasting"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	var (
		reports []forecastentity.Report
		failed  []pairError
	)
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if bar != nil {
			bar.Describe(p)
		}
		r, err := uc.Forecast(ctx, forecastusecase.ForecastRequest{Pair: p, AsOf: date})
		if err != nil {
			failed = append(failed, pairError{pair: p, err: err})
		} else {
			reports = append(reports, *r)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(progress)
	}
	return reports, failed
}

func newMatchCmd() *cobra.Command {
	var league, match, format string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Estimate win/draw/loss probabilities for a fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			uc := matchusecase.NewMatchUsecase(
				matchusecase.Config{Trees: cfg.Match.Trees, Seed: cfg.Match.Seed},
				matchadapters.NewLeagueCatalog(matchadapters.DefaultLeagues()),
				matchusecase.NewRandomSource(time.Now().UnixNano()),
			)
			est, err := uc.Estimate(cmd.Context(), league, match)
			if err != nil {
				return err
			}
			return renderEstimate(cmd.OutOrStdout(), *est, format)
		},
	}

	cmd.Flags().StringVar(&league, "league", "", "league code (see 'leagues')")
	cmd.Flags().StringVar(&match, "match", "", "fixture label, e.g. \"Arsenal vs Chelsea\"")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("match")
	return cmd
}

func newPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List configured pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, p := range cfg.Forecast.Pairs {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newLeaguesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List leagues and their fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderLeagues(cmd.OutOrStdout(), matchadapters.DefaultLeagues())
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /v1 API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := jwtmw.NewGenerator(cfg.Auth.JWTSecret, ttl).GenerateToken(subject)
			if err != nil {
				return fmt.Errorf("issuing token (is JWT_SECRET set?): %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "forecastctl", "token subject (client name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
