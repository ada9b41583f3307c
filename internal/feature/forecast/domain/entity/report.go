package entity

import "time"

// AlertKind identifies the heuristic that produced an alert.
type AlertKind string

const (
	// AlertAbnormalVolatility fires when a predicted range is wide compared to the mean ATR.
	AlertAbnormalVolatility AlertKind = "abnormal_volatility"
	// AlertMACDSignal fires when the MACD line and its signal line diverge.
	AlertMACDSignal AlertKind = "macd_signal"
)

// Direction of a MACD signal.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
)

// Prediction is the forecast price range for one horizon.
type Prediction struct {
	Horizon      int     // Bars ahead
	PredictedMax float64 // open_now + predicted delta to the future high
	PredictedMin float64 // open_now + predicted delta to the future low
}

// Alert is a heuristic warning attached to a forecast.
// Horizon is 0 for series-wide alerts.
type Alert struct {
	Kind      AlertKind
	Horizon   int
	Direction string
	Message   string
}

// ChartPoint is one point of the history-plus-forecast chart.
type ChartPoint struct {
	Time     time.Time
	High     float64
	Low      float64
	Forecast bool
}

// Chart holds recent bars followed by synthetic forecast points.
// Points[ForecastStart:] are forecasts.
type Chart struct {
	Points        []ChartPoint
	ForecastStart int
}

// Report is the full result of one forecast run.
type Report struct {
	ID          string
	Pair        string
	Interval    string
	AsOf        string // Requested date, echoed back as given
	OpenNow     float64
	GeneratedAt time.Time
	Predictions []Prediction
	Alerts      []Alert
	Chart       Chart
}
