// Package adapters は match フィーチャーのデータソースを提供します。
package adapters

import (
	"forecast_backend/internal/feature/match/domain/entity"
	"forecast_backend/internal/feature/match/usecase"
)

// DefaultLeagues は既定のリーグ一覧です。
func DefaultLeagues() []entity.League {
	return []entity.League{
		{Code: "PL", Name: "Premier League (England)", Fixtures: []string{
			"Manchester City vs Arsenal - 2025-06-05",
			"Liverpool vs Chelsea - 2025-06-06",
		}},
		{Code: "LL", Name: "La Liga (Spain)", Fixtures: []string{
			"Real Madrid vs Barcelona - 2025-06-04",
			"Atletico Madrid vs Sevilla - 2025-06-07",
		}},
		{Code: "SA", Name: "Serie A (Italy)"},
		{Code: "BL", Name: "Bundesliga (Germany)"},
		{Code: "L1", Name: "Ligue 1 (France)"},
		{Code: "MLS", Name: "MLS (USA)"},
		{Code: "ED", Name: "Eredivisie (Netherlands)"},
		{Code: "PRL", Name: "Primeira Liga (Portugal)"},
		{Code: "CH", Name: "Championship (England D2)"},
		{Code: "SPL", Name: "Saudi Pro League"},
	}
}

// LeagueCatalog は設定から読み込んだ固定のリーグ一覧です。
type LeagueCatalog struct {
	leagues []entity.League
	byCode  map[string]int
}

var _ usecase.LeagueRepository = (*LeagueCatalog)(nil)

// NewLeagueCatalog は leagues から LeagueCatalog を作成します。コードが重複した場合は先勝ちです。
func NewLeagueCatalog(leagues []entity.League) *LeagueCatalog {
	c := &LeagueCatalog{byCode: make(map[string]int, len(leagues))}
	for _, l := range leagues {
		if _, dup := c.byCode[l.Code]; dup {
			continue
		}
		c.byCode[l.Code] = len(c.leagues)
		c.leagues = append(c.leagues, l)
	}
	return c
}

// List は設定順のリーグ一覧を返します。
func (c *LeagueCatalog) List() []entity.League {
	return append([]entity.League(nil), c.leagues...)
}

// Get はコードに一致するリーグを返します。
func (c *LeagueCatalog) Get(code string) (entity.League, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return entity.League{}, false
	}
	return c.leagues[i], true
}
