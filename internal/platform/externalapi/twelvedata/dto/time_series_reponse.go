// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// TimeSeriesValue is one bar as returned by Twelve Data. All numbers are strings.
type TimeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume,omitempty"` // absent for most forex pairs
}

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
// Values is nil when the field is missing from the body.
type TimeSeriesResponse struct {
	Status  string            `json:"status"`
	Code    int               `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
	Values  []TimeSeriesValue `json:"values"`
}

// Meta describes the returned series.
type Meta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Type     string `json:"type,omitempty"`
}
