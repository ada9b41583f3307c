package usecase

import (
	"fmt"
	"math"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// evaluateAlerts はヒューリスティックなアラートを判定します。
//   - abnormal_volatility: ホライズンごとに (max - min) > VolatilityMultiplier * 平均ATR
//   - macd_signal: |macd - signal| > MACDThreshold (最新バー、ホライズン 0)
func (c Config) evaluateAlerts(preds []entity.Prediction, meanATR, macdLast, signalLast float64) []entity.Alert {
	alerts := make([]entity.Alert, 0, len(preds)+1)

	limit := c.VolatilityMultiplier * meanATR
	for _, p := range preds {
		spread := p.PredictedMax - p.PredictedMin
		if spread > limit {
			alerts = append(alerts, entity.Alert{
				Kind:    entity.AlertAbnormalVolatility,
				Horizon: p.Horizon,
				Message: fmt.Sprintf("abnormal volatility expected within %d bars: range %.5f exceeds %.5f", p.Horizon, spread, limit),
			})
		}
	}

	diff := macdLast - signalLast
	if math.Abs(diff) > c.MACDThreshold {
		direction := entity.DirectionBearish
		if diff > 0 {
			direction = entity.DirectionBullish
		}
		alerts = append(alerts, entity.Alert{
			Kind:      entity.AlertMACDSignal,
			Direction: direction,
			Message:   fmt.Sprintf("MACD signal detected: %s trend", direction),
		})
	}
	return alerts
}
