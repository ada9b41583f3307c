package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

func TestEvaluateAlerts_Volatility(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	const meanATR = 0.125 // limit = 0.25

	tests := []struct {
		name      string
		max, min  float64
		wantAlert bool
	}{
		{"well below", 1.1, 1.0, false},
		{"exactly at limit", 1.25, 1.0, false},
		{"above limit", 1.25001, 1.0, true},
		{"far above", 2.0, 1.0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			preds := []entity.Prediction{{Horizon: 2, PredictedMax: tt.max, PredictedMin: tt.min}}
			alerts := cfg.evaluateAlerts(preds, meanATR, 0, 0)

			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, entity.AlertAbnormalVolatility, alerts[0].Kind)
			assert.Equal(t, 2, alerts[0].Horizon)
			assert.NotEmpty(t, alerts[0].Message)
		})
	}
}

func TestEvaluateAlerts_PerHorizon(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	preds := []entity.Prediction{
		{Horizon: 1, PredictedMax: 1.1005, PredictedMin: 1.1000},
		{Horizon: 2, PredictedMax: 1.1030, PredictedMin: 1.1000},
		{Horizon: 4, PredictedMax: 1.1050, PredictedMin: 1.1000},
	}

	alerts := cfg.evaluateAlerts(preds, 0.001, 0, 0)
	require.Len(t, alerts, 2)
	assert.Equal(t, 2, alerts[0].Horizon)
	assert.Equal(t, 4, alerts[1].Horizon)
}

func TestEvaluateAlerts_MACD(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	tests := []struct {
		name          string
		macd, signal  float64
		wantAlert     bool
		wantDirection string
	}{
		{"no divergence", 0.0005, 0.0005, false, ""},
		{"small positive", 0.0015, 0.0010, false, ""},
		{"bullish", 0.0030, 0.0010, true, entity.DirectionBullish},
		{"bearish", -0.0030, 0.0001, true, entity.DirectionBearish},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			alerts := cfg.evaluateAlerts(nil, 1, tt.macd, tt.signal)
			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, entity.AlertMACDSignal, alerts[0].Kind)
			assert.Equal(t, 0, alerts[0].Horizon)
			assert.Equal(t, tt.wantDirection, alerts[0].Direction)
			assert.Contains(t, alerts[0].Message, tt.wantDirection)
		})
	}
}
