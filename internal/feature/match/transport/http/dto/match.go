// Package dto は match フィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"forecast_backend/internal/feature/match/domain/entity"
)

// EstimateRequest は POST /v1/match/estimate のリクエストボディです。
type EstimateRequest struct {
	League string `json:"league" binding:"required"`
	Match  string `json:"match" binding:"required"`
}

// FeaturesResponse は推定に使った特徴量です。
type FeaturesResponse struct {
	HomeTeamForm         int     `json:"home_team_form"`
	AwayTeamForm         int     `json:"away_team_form"`
	HomeAvgGoalsScored   float64 `json:"home_avg_goals_scored"`
	AwayAvgGoalsScored   float64 `json:"away_avg_goals_scored"`
	HomeAvgGoalsConceded float64 `json:"home_avg_goals_conceded"`
	AwayAvgGoalsConceded float64 `json:"away_avg_goals_conceded"`
	RankDiff             int     `json:"rank_diff"`
}

// ProbabilitiesResponse は結果ごとの確率です。
type ProbabilitiesResponse struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// EstimateResponse は試合結果の推定レスポンスです。
// probabilities は 0〜1、percentages は小数点以下1桁のパーセントです。
type EstimateResponse struct {
	League         string                `json:"league"`
	Match          string                `json:"match"`
	Features       FeaturesResponse      `json:"features"`
	Probabilities  ProbabilitiesResponse `json:"probabilities"`
	Percentages    ProbabilitiesResponse `json:"percentages"`
	Recommendation string                `json:"recommendation"`
}

// LeagueResponse はリーグ一覧の1件です。
type LeagueResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LeaguesResponse はリーグ一覧です。
type LeaguesResponse struct {
	Leagues []LeagueResponse `json:"leagues"`
}

// FixturesResponse はリーグの試合一覧です。
type FixturesResponse struct {
	League   string   `json:"league"`
	Fixtures []string `json:"fixtures"`
}

// NewEstimateResponse は推定結果をレスポンス形式に変換します。
func NewEstimateResponse(e entity.Estimate) EstimateResponse {
	pct := e.Probabilities.Percent()
	return EstimateResponse{
		League: e.League,
		Match:  e.Match,
		Features: FeaturesResponse{
			HomeTeamForm:         e.Features.HomeTeamForm,
			AwayTeamForm:         e.Features.AwayTeamForm,
			HomeAvgGoalsScored:   e.Features.HomeAvgGoalsScored,
			AwayAvgGoalsScored:   e.Features.AwayAvgGoalsScored,
			HomeAvgGoalsConceded: e.Features.HomeAvgGoalsConceded,
			AwayAvgGoalsConceded: e.Features.AwayAvgGoalsConceded,
			RankDiff:             e.Features.RankDiff,
		},
		Probabilities: ProbabilitiesResponse{
			HomeWin: e.Probabilities.HomeWin,
			Draw:    e.Probabilities.Draw,
			AwayWin: e.Probabilities.AwayWin,
		},
		Percentages: ProbabilitiesResponse{
			HomeWin: pct.HomeWin,
			Draw:    pct.Draw,
			AwayWin: pct.AwayWin,
		},
		Recommendation: e.Recommendation.String(),
	}
}
