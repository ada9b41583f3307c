// Package adapters は forecast 機能の永続化アダプタを提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/usecase"
)

type runGorm struct {
	db *gorm.DB
}

var _ usecase.RunRepository = (*runGorm)(nil)

// NewRunRepository は gorm を使う RunRepository を返します。
func NewRunRepository(db *gorm.DB) *runGorm {
	return &runGorm{db: db}
}

// ForecastRunModel は1回の予測結果の行です。予測・アラート・チャートは JSON 列に保存します。
type ForecastRunModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Pair        string    `gorm:"size:16;not null;index:forecast_runs_pair_generated,priority:1"`
	Interval    string    `gorm:"size:16;not null"`
	AsOf        string    `gorm:"size:10"`
	OpenNow     float64   `gorm:"not null"`
	GeneratedAt time.Time `gorm:"not null;index:forecast_runs_pair_generated,priority:2"`
	AlertCount  int       `gorm:"not null;default:0"`

	Predictions []predictionRecord `gorm:"serializer:json"`
	Alerts      []alertRecord      `gorm:"serializer:json"`
	Chart       chartRecord        `gorm:"serializer:json"`
}

func (ForecastRunModel) TableName() string {
	return "forecast_runs"
}

type predictionRecord struct {
	Horizon int     `json:"horizon"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

type alertRecord struct {
	Kind      string `json:"kind"`
	Horizon   int    `json:"horizon"`
	Direction string `json:"direction,omitempty"`
	Message   string `json:"message"`
}

type chartPointRecord struct {
	Time     time.Time `json:"time"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Forecast bool      `json:"forecast,omitempty"`
}

type chartRecord struct {
	Points        []chartPointRecord `json:"points"`
	ForecastStart int                `json:"forecast_start"`
}

func toModel(r entity.Report) ForecastRunModel {
	m := ForecastRunModel{
		ID:          r.ID,
		Pair:        r.Pair,
		Interval:    r.Interval,
		AsOf:        r.AsOf,
		OpenNow:     r.OpenNow,
		GeneratedAt: r.GeneratedAt,
		AlertCount:  len(r.Alerts),
		Predictions: make([]predictionRecord, 0, len(r.Predictions)),
		Alerts:      make([]alertRecord, 0, len(r.Alerts)),
		Chart:       chartRecord{ForecastStart: r.Chart.ForecastStart},
	}
	for _, p := range r.Predictions {
		m.Predictions = append(m.Predictions, predictionRecord{Horizon: p.Horizon, Max: p.PredictedMax, Min: p.PredictedMin})
	}
	for _, a := range r.Alerts {
		m.Alerts = append(m.Alerts, alertRecord{Kind: string(a.Kind), Horizon: a.Horizon, Direction: a.Direction, Message: a.Message})
	}
	for _, p := range r.Chart.Points {
		m.Chart.Points = append(m.Chart.Points, chartPointRecord{Time: p.Time, High: p.High, Low: p.Low, Forecast: p.Forecast})
	}
	return m
}

func (m ForecastRunModel) toEntity() entity.Report {
	r := entity.Report{
		ID:          m.ID,
		Pair:        m.Pair,
		Interval:    m.Interval,
		AsOf:        m.AsOf,
		OpenNow:     m.OpenNow,
		GeneratedAt: m.GeneratedAt,
		Predictions: make([]entity.Prediction, 0, len(m.Predictions)),
		Alerts:      make([]entity.Alert, 0, len(m.Alerts)),
		Chart:       entity.Chart{ForecastStart: m.Chart.ForecastStart},
	}
	for _, p := range m.Predictions {
		r.Predictions = append(r.Predictions, entity.Prediction{Horizon: p.Horizon, PredictedMax: p.Max, PredictedMin: p.Min})
	}
	for _, a := range m.Alerts {
		r.Alerts = append(r.Alerts, entity.Alert{Kind: entity.AlertKind(a.Kind), Horizon: a.Horizon, Direction: a.Direction, Message: a.Message})
	}
	for _, p := range m.Chart.Points {
		r.Chart.Points = append(r.Chart.Points, entity.ChartPoint{Time: p.Time, High: p.High, Low: p.Low, Forecast: p.Forecast})
	}
	return r
}

// Save は予測結果を1行として保存します。
func (r *runGorm) Save(ctx context.Context, report entity.Report) error {
	m := toModel(report)
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListRecent は新しい順に最大 limit 件を返します。pair が空の場合は全ペアが対象です。
func (r *runGorm) ListRecent(ctx context.Context, pair string, limit int) ([]entity.Report, error) {
	var rows []ForecastRunModel
	q := r.db.WithContext(ctx).Order("generated_at DESC")
	if pair != "" {
		q = q.Where("pair = ?", pair)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Report, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
