// Package usecase は試合結果の推定ロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"forecast_backend/internal/feature/match/domain"
	"forecast_backend/internal/feature/match/domain/entity"
	"forecast_backend/internal/shared/forest"
)

// DefaultFixtures は試合一覧が設定されていないリーグで返す試合です。
var DefaultFixtures = []string{"Match 1", "Match 2"}

// trainingX / trainingY は分類器の固定学習データです。
// 列は entity.Features.Vector と同じ順序です。
var (
	trainingX = [][]float64{
		{12, 7, 2.1, 1.1, 0.9, 1.7, 3},
		{8, 10, 1.9, 1.6, 1.3, 1.1, -2},
		{14, 5, 2.5, 1.0, 0.8, 1.9, 6},
		{10, 10, 1.8, 1.8, 1.2, 1.2, 0},
	}
	trainingY = []int{int(entity.HomeWin), int(entity.AwayWin), int(entity.HomeWin), int(entity.Draw)}
)

// LeagueRepository はリーグと試合一覧を提供します。
type LeagueRepository interface {
	List() []entity.League
	Get(code string) (entity.League, bool)
}

// Classifier は多クラス分類モデルです。
type Classifier interface {
	Fit(x [][]float64, y []int) error
	PredictProba(x []float64) ([]float64, error)
}

// ClassifierFactory は未学習の Classifier を生成します。
type ClassifierFactory func() Classifier

// Recorder は推定結果をメトリクスとして記録します。
type Recorder interface {
	EstimateCompleted(recommendation string)
}

type nopRecorder struct{}

func (nopRecorder) EstimateCompleted(string) {}

// Config は分類器のパラメータです。
type Config struct {
	Trees int
	Seed  int64
}

// MatchUsecase は試合結果の確率を推定します。
type MatchUsecase struct {
	leagues       LeagueRepository
	source        FeatureSource
	newClassifier ClassifierFactory
	metrics       Recorder
}

// Option は MatchUsecase の任意の依存を設定します。
type Option func(*MatchUsecase)

// WithClassifierFactory は分類モデルの生成方法を差し替えます。
func WithClassifierFactory(f ClassifierFactory) Option {
	return func(u *MatchUsecase) { u.newClassifier = f }
}

// WithRecorder はメトリクスの記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(u *MatchUsecase) { u.metrics = r }
}

// NewMatchUsecase は MatchUsecase を生成します。既定の分類器はランダムフォレストです。
func NewMatchUsecase(cfg Config, leagues LeagueRepository, source FeatureSource, opts ...Option) *MatchUsecase {
	u := &MatchUsecase{
		leagues: leagues,
		source:  source,
		metrics: nopRecorder{},
		newClassifier: func() Classifier {
			return forest.NewClassifier(forest.Config{Trees: cfg.Trees, Seed: cfg.Seed}, entity.OutcomeCount)
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Leagues はリーグ一覧を返します。
func (u *MatchUsecase) Leagues() []entity.League {
	return u.leagues.List()
}

// Fixtures は指定リーグの試合一覧を返します。設定がない場合は DefaultFixtures を返します。
func (u *MatchUsecase) Fixtures(code string) ([]string, error) {
	l, ok := u.leagues.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLeague, code)
	}
	if len(l.Fixtures) == 0 {
		return append([]string(nil), DefaultFixtures...), nil
	}
	return append([]string(nil), l.Fixtures...), nil
}

// Estimate は試合の特徴量を生成し、分類器を学習して勝敗の確率を推定します。
// match は自由入力で、特徴量の生成には使いません。
func (u *MatchUsecase) Estimate(ctx context.Context, league, match string) (*entity.Estimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := u.leagues.Get(league); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLeague, league)
	}

	features := u.source.Features()

	clf := u.newClassifier()
	if err := clf.Fit(trainingX, trainingY); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	proba, err := clf.PredictProba(features.Vector())
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(proba) != entity.OutcomeCount {
		return nil, fmt.Errorf("predict: got %d classes, want %d", len(proba), entity.OutcomeCount)
	}

	rec := argmax(proba)
	u.metrics.EstimateCompleted(rec.String())
	slog.Info("match estimated", "league", league, "match", match, "recommendation", rec.String())

	return &entity.Estimate{
		League:   league,
		Match:    match,
		Features: features,
		Probabilities: entity.Probabilities{
			HomeWin: proba[entity.HomeWin],
			Draw:    proba[entity.Draw],
			AwayWin: proba[entity.AwayWin],
		},
		Recommendation: rec,
	}, nil
}

// argmax は最大確率のクラスを返します。同率の場合は先のクラスを優先します。
func argmax(proba []float64) entity.Outcome {
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return entity.Outcome(best)
}
