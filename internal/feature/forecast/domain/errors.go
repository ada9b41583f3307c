// Package domain defines domain-level errors for the forecast feature.
package domain

import "errors"

// Domain errors for forecast operations.
var (
	// ErrUnknownPair indicates the requested pair is not in the configured pair list.
	ErrUnknownPair = errors.New("unknown pair")

	// ErrDataUnavailable indicates the market data provider returned no usable series:
	// a missing "values" field, an error status, an HTTP error or a malformed body.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientHistory indicates the series is too short to build any
	// complete training row or a complete prediction row.
	ErrInsufficientHistory = errors.New("insufficient history")
)
