// Package entity defines the domain models for the forecast feature.
package entity

import (
	"fmt"
	"sort"
	"time"
)

// Bar represents one OHLC(V) price bar of a currency or metal pair.
type Bar struct {
	Time   time.Time // Start of the sampling interval
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // Zero for series without volume (most forex pairs)
}

// SortBars orders bars by time ascending. Bars with equal timestamps keep their input order.
func SortBars(bars []Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
}

var intervals = map[string]time.Duration{
	"1min":  time.Minute,
	"5min":  5 * time.Minute,
	"15min": 15 * time.Minute,
	"30min": 30 * time.Minute,
	"45min": 45 * time.Minute,
	"1h":    time.Hour,
	"2h":    2 * time.Hour,
	"4h":    4 * time.Hour,
	"8h":    8 * time.Hour,
	"1day":  24 * time.Hour,
	"1week": 7 * 24 * time.Hour,
}

// IntervalDuration converts a Twelve Data interval name (e.g. "1h", "1day") to its duration.
func IntervalDuration(interval string) (time.Duration, error) {
	d, ok := intervals[interval]
	if !ok {
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
	return d, nil
}
