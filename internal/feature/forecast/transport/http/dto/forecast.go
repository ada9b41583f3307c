// Package dto は forecast フィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// ForecastQuery は GET /v1/forecast のクエリです。
type ForecastQuery struct {
	Pair string `form:"pair" binding:"required"`
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// HistoryQuery は GET /v1/forecast/history のクエリです。
type HistoryQuery struct {
	Pair  string `form:"pair"`
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

// PredictionResponse は1ホライズン分の予測です。
type PredictionResponse struct {
	Horizon      int     `json:"horizon"`       // 何本先か
	PredictedMax float64 `json:"predicted_max"` // 予測高値
	PredictedMin float64 `json:"predicted_min"` // 予測安値
}

// AlertResponse はアラートです。horizon 0 は系列全体に対するアラートです。
type AlertResponse struct {
	Kind      string `json:"kind"`
	Horizon   int    `json:"horizon"`
	Direction string `json:"direction,omitempty"`
	Message   string `json:"message"`
}

// ChartPointResponse はチャートの1点です。
type ChartPointResponse struct {
	Time     string  `json:"time"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Forecast bool    `json:"forecast"`
}

// ChartResponse は履歴と予測点のチャートです。points[forecast_start:] が予測です。
type ChartResponse struct {
	Points        []ChartPointResponse `json:"points"`
	ForecastStart int                  `json:"forecast_start"`
}

// ForecastResponse は予測レポートのレスポンスDTOです。
type ForecastResponse struct {
	ID          string               `json:"id"`
	Pair        string               `json:"pair"`
	Interval    string               `json:"interval"`
	AsOf        string               `json:"as_of,omitempty"`
	OpenNow     float64              `json:"open_now"`
	GeneratedAt string               `json:"generated_at"`
	Predictions []PredictionResponse `json:"predictions"`
	Alerts      []AlertResponse      `json:"alerts"`
	Chart       ChartResponse        `json:"chart"`
}

// HistoryResponse は保存済みレポートの一覧です。
type HistoryResponse struct {
	Runs []ForecastResponse `json:"runs"`
}

// PairsResponse は予測可能なペアの一覧です。
type PairsResponse struct {
	Pairs []string `json:"pairs"`
}

// NewForecastResponse はドメインのレポートをレスポンス形式に変換します。
func NewForecastResponse(r entity.Report) ForecastResponse {
	out := ForecastResponse{
		ID:          r.ID,
		Pair:        r.Pair,
		Interval:    r.Interval,
		AsOf:        r.AsOf,
		OpenNow:     r.OpenNow,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
		Predictions: make([]PredictionResponse, 0, len(r.Predictions)),
		Alerts:      make([]AlertResponse, 0, len(r.Alerts)),
		Chart: ChartResponse{
			Points:        make([]ChartPointResponse, 0, len(r.Chart.Points)),
			ForecastStart: r.Chart.ForecastStart,
		},
	}
	for _, p := range r.Predictions {
		out.Predictions = append(out.Predictions, PredictionResponse{
			Horizon:      p.Horizon,
			PredictedMax: p.PredictedMax,
			PredictedMin: p.PredictedMin,
		})
	}
	for _, a := range r.Alerts {
		out.Alerts = append(out.Alerts, AlertResponse{
			Kind:      string(a.Kind),
			Horizon:   a.Horizon,
			Direction: a.Direction,
			Message:   a.Message,
		})
	}
	for _, p := range r.Chart.Points {
		out.Chart.Points = append(out.Chart.Points, ChartPointResponse{
			Time:     p.Time.UTC().Format(time.RFC3339),
			High:     p.High,
			Low:      p.Low,
			Forecast: p.Forecast,
		})
	}
	return out
}
