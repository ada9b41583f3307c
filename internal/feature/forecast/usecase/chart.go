package usecase

import (
	"time"

	"forecast_backend/internal/feature/forecast/domain/entity"
)

// buildChart は直近 ChartHistory 本のバーと、ChartHorizon の予測から作る
// T + ChartHorizon*interval の予測点を返します。
func (c Config) buildChart(bars []entity.Bar, preds []entity.Prediction) (entity.Chart, error) {
	step, err := entity.IntervalDuration(c.Interval)
	if err != nil {
		return entity.Chart{}, err
	}

	from := len(bars) - c.ChartHistory
	if from < 0 {
		from = 0
	}
	points := make([]entity.ChartPoint, 0, len(bars)-from+1)
	for _, b := range bars[from:] {
		points = append(points, entity.ChartPoint{Time: b.Time, High: b.High, Low: b.Low})
	}
	chart := entity.Chart{ForecastStart: len(points)}

	if len(bars) > 0 {
		last := bars[len(bars)-1].Time
		for _, p := range preds {
			if p.Horizon != c.ChartHorizon {
				continue
			}
			points = append(points, entity.ChartPoint{
				Time:     last.Add(time.Duration(c.ChartHorizon) * step),
				High:     p.PredictedMax,
				Low:      p.PredictedMin,
				Forecast: true,
			})
			break
		}
	}
	chart.Points = points
	return chart, nil
}
