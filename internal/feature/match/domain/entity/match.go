// Package entity defines the domain models for the match feature.
package entity

import "github.com/shopspring/decimal"

// League is a selectable competition with its mock fixtures.
type League struct {
	Code     string   // Short code (e.g. "PL")
	Name     string   // Display name
	Fixtures []string // Free-text fixture labels
}

// Features is the synthesized feature row describing one match.
type Features struct {
	HomeTeamForm         int
	AwayTeamForm         int
	HomeAvgGoalsScored   float64
	AwayAvgGoalsScored   float64
	HomeAvgGoalsConceded float64
	AwayAvgGoalsConceded float64
	RankDiff             int
}

// Vector returns the features in model column order.
func (f Features) Vector() []float64 {
	return []float64{
		float64(f.HomeTeamForm),
		float64(f.AwayTeamForm),
		f.HomeAvgGoalsScored,
		f.AwayAvgGoalsScored,
		f.HomeAvgGoalsConceded,
		f.AwayAvgGoalsConceded,
		float64(f.RankDiff),
	}
}

// Outcome is a match result class. Values are the classifier labels.
type Outcome int

const (
	HomeWin Outcome = iota
	Draw
	AwayWin
)

// OutcomeCount is the number of outcome classes.
const OutcomeCount = 3

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "home_win"
	case Draw:
		return "draw"
	case AwayWin:
		return "away_win"
	default:
		return "unknown"
	}
}

// Probabilities is a distribution over outcomes; the fields sum to 1.
type Probabilities struct {
	HomeWin float64
	Draw    float64
	AwayWin float64
}

// Percent returns each probability as a percentage rounded to one decimal place.
func (p Probabilities) Percent() Probabilities {
	pct := func(v float64) float64 {
		return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	}
	return Probabilities{HomeWin: pct(p.HomeWin), Draw: pct(p.Draw), AwayWin: pct(p.AwayWin)}
}

// Estimate is the result of one match estimation.
type Estimate struct {
	League         string
	Match          string
	Features       Features
	Probabilities  Probabilities
	Recommendation Outcome
}
