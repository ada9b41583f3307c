package usecase

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"forecast_backend/internal/feature/match/domain/entity"
)

// FeatureSource は試合の特徴量を生成します。
type FeatureSource interface {
	Features() entity.Features
}

// RandomSource は固定の範囲から特徴量を乱数で生成する FeatureSource です。
// 複数のゴルーチンから同時に使用できます。
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ FeatureSource = (*RandomSource)(nil)

// NewRandomSource は seed で初期化した RandomSource を返します。
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// Features は以下の範囲で特徴量を生成します（上限は含まない）。
//   - home_team_form [8,15), away_team_form [5,12)
//   - home/away 平均得点 [1.5,3.0) / [0.5,2.5)
//   - home/away 平均失点 [0.5,1.5) / [1.0,2.5)
//   - rank_diff [1,10)
func (s *RandomSource) Features() entity.Features {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.Features{
		HomeTeamForm:         s.intRange(8, 15),
		AwayTeamForm:         s.intRange(5, 12),
		HomeAvgGoalsScored:   s.uniform2(1.5, 3.0),
		AwayAvgGoalsScored:   s.uniform2(0.5, 2.5),
		HomeAvgGoalsConceded: s.uniform2(0.5, 1.5),
		AwayAvgGoalsConceded: s.uniform2(1.0, 2.5),
		RankDiff:             s.intRange(1, 10),
	}
}

func (s *RandomSource) intRange(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo)
}

// uniform2 は [lo,hi) の一様乱数を小数点以下2桁に丸めます。
func (s *RandomSource) uniform2(lo, hi float64) float64 {
	v := lo + (hi-lo)*s.rng.Float64()
	r := decimal.NewFromFloat(v).Round(2)
	// 丸めで上限に届いた場合は範囲内に戻す
	if r.GreaterThanOrEqual(decimal.NewFromFloat(hi)) {
		r = r.Sub(decimal.New(1, -2))
	}
	return r.InexactFloat64()
}
