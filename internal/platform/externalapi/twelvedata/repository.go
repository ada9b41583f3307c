package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"forecast_backend/internal/feature/forecast/domain"
	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/usecase"
	"forecast_backend/internal/platform/externalapi/twelvedata/dto"
	"forecast_backend/internal/shared/ratelimiter"
)

// FetchRecorder は上流APIの呼び出し結果を記録します。
type FetchRecorder interface {
	UpstreamFetch(outcome string)
}

type nopFetchRecorder struct{}

func (nopFetchRecorder) UpstreamFetch(string) {}

// TwelveDataMarket はTwelve Data外部APIから価格バーを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
	metrics FetchRecorder
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// Option は TwelveDataMarket の任意の依存を設定します。
type Option func(*TwelveDataMarket)

// WithLimiter はリクエスト前に待機するレートリミッターを設定します。
func WithLimiter(l ratelimiter.Limiter) Option {
	return func(t *TwelveDataMarket) { t.limiter = l }
}

// WithFetchRecorder は呼び出し結果の記録先を設定します。
func WithFetchRecorder(r FetchRecorder) Option {
	return func(t *TwelveDataMarket) { t.metrics = r }
}

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client, opts ...Option) *TwelveDataMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	t := &TwelveDataMarket{cfg: cfg, client: client, metrics: nopFetchRecorder{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetTimeSeries はTwelve Data APIから時系列データを取得し、entity.Barのスライスとして返します。
// レスポンスに values がない、status が error、HTTPエラー、JSONとして不正な場合は
// domain.ErrDataUnavailable をラップしたエラーを返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, pair, interval string, outputsize int) ([]entity.Bar, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", pair)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("apikey", t.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", strings.TrimRight(t.cfg.BaseURL, "/"), q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		t.metrics.UpstreamFetch("network_error")
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		t.metrics.UpstreamFetch("http_error")
		return nil, fmt.Errorf("%w: twelvedata http %d", domain.ErrDataUnavailable, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.metrics.UpstreamFetch("invalid_body")
		return nil, fmt.Errorf("%w: decode twelvedata response: %v", domain.ErrDataUnavailable, err)
	}
	if body.Status == "error" {
		t.metrics.UpstreamFetch("api_error")
		return nil, fmt.Errorf("%w: twelvedata: %s", domain.ErrDataUnavailable, body.Message)
	}
	if body.Values == nil {
		t.metrics.UpstreamFetch("missing_values")
		return nil, fmt.Errorf("%w: twelvedata response has no values", domain.ErrDataUnavailable)
	}

	bars := make([]entity.Bar, 0, len(body.Values))
	for _, v := range body.Values {
		b, err := toBar(v)
		if err != nil {
			t.metrics.UpstreamFetch("invalid_body")
			return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
		}
		bars = append(bars, b)
	}

	// Twelve Data は新しい順で返すため昇順に並べ替える
	entity.SortBars(bars)
	t.metrics.UpstreamFetch("ok")
	return bars, nil
}

// toBar は文字列の値をパースしてドメインエンティティに変換します。
func toBar(v dto.TimeSeriesValue) (entity.Bar, error) {
	// タイムスタンプをパース
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return entity.Bar{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}

	var b entity.Bar
	b.Time = tm
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", v.Open, &b.Open},
		{"high", v.High, &b.High},
		{"low", v.Low, &b.Low},
		{"close", v.Close, &b.Close},
	}
	for _, f := range fields {
		x, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return entity.Bar{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = x
	}

	// 出来高は存在する場合のみパース
	if v.Volume != "" {
		vol, err := strconv.ParseFloat(v.Volume, 64)
		if err != nil {
			return entity.Bar{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
		b.Volume = vol
	}
	return b, nil
}
