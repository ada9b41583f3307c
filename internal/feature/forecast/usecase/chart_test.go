package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

func TestBuildChart(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	bars := trendBars(10, 0.001)
	preds := []entity.Prediction{
		{Horizon: 1, PredictedMax: 1.2, PredictedMin: 1.0},
		{Horizon: 4, PredictedMax: 1.3, PredictedMin: 1.1},
	}

	chart, err := cfg.buildChart(bars, preds)
	require.NoError(t, err)

	require.Len(t, chart.Points, 5)
	assert.Equal(t, 4, chart.ForecastStart)
	for i, p := range chart.Points[:4] {
		assert.Equal(t, bars[6+i].Time, p.Time)
		assert.Equal(t, bars[6+i].High, p.High)
		assert.False(t, p.Forecast)
	}

	fc := chart.Points[4]
	assert.True(t, fc.Forecast)
	assert.Equal(t, bars[9].Time.Add(4*time.Hour), fc.Time)
	assert.Equal(t, 1.3, fc.High)
	assert.Equal(t, 1.1, fc.Low)
}

func TestBuildChart_ShortSeriesWithoutChartHorizon(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	bars := trendBars(2, 0.001)

	chart, err := cfg.buildChart(bars, []entity.Prediction{{Horizon: 1}})
	require.NoError(t, err)
	assert.Len(t, chart.Points, 2)
	assert.Equal(t, 2, chart.ForecastStart)
}

func TestBuildChart_UnknownInterval(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Interval = "3h"

	_, err := cfg.buildChart(trendBars(5, 0.001), nil)
	assert.Error(t, err)
}
