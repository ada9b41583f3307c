// Package domain defines domain-level errors for the match feature.
package domain

import "errors"

var (
	// ErrUnknownLeague indicates the league code is not configured.
	ErrUnknownLeague = errors.New("unknown league")
)
