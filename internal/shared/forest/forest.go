package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrEmptyTrainingSet is returned when Fit receives no samples.
	ErrEmptyTrainingSet = errors.New("forest: empty training set")
	// ErrDimensionMismatch is returned when X, y or a prediction input disagree in shape.
	ErrDimensionMismatch = errors.New("forest: dimension mismatch")
	// ErrNotFitted is returned when predicting before Fit.
	ErrNotFitted = errors.New("forest: model is not fitted")
)

// DefaultTrees is the ensemble size used when Config.Trees is zero.
const DefaultTrees = 100

// Config controls ensemble construction.
type Config struct {
	Trees int // number of trees; 0 uses DefaultTrees
	// MaxFeatures is the number of features tried per split. 0 means all
	// features for the regressor and floor(sqrt(n)) for the classifier.
	MaxFeatures    int
	MinSamplesLeaf int // 0 means 1
	MaxDepth       int // 0 means unlimited
	Seed           int64
}

func (c Config) trees() int {
	if c.Trees <= 0 {
		return DefaultTrees
	}
	return c.Trees
}

func (c Config) minLeaf() int {
	if c.MinSamplesLeaf <= 0 {
		return 1
	}
	return c.MinSamplesLeaf
}

func (c Config) maxFeatures(nFeatures int, sqrtDefault bool) int {
	m := c.MaxFeatures
	if m <= 0 {
		m = nFeatures
		if sqrtDefault {
			m = int(math.Sqrt(float64(nFeatures)))
		}
	}
	if m < 1 {
		m = 1
	}
	if m > nFeatures {
		m = nFeatures
	}
	return m
}

// Regressor is a random forest of squared-error regression trees.
// Predictions average the leaf means of all trees.
type Regressor struct {
	cfg       Config
	trees     []*node
	nFeatures int
}

// NewRegressor returns an unfitted Regressor.
func NewRegressor(cfg Config) *Regressor {
	return &Regressor{cfg: cfg}
}

// Fit trains the ensemble from scratch on X (rows of features) and y.
func (r *Regressor) Fit(x [][]float64, y []float64) error {
	nFeatures, err := checkMatrix(x, len(y))
	if err != nil {
		return err
	}

	master := rand.New(rand.NewSource(r.cfg.Seed))
	trees := make([]*node, 0, r.cfg.trees())
	for t := 0; t < r.cfg.trees(); t++ {
		rng := rand.New(rand.NewSource(master.Int63()))
		b := &builder{
			x:           x,
			crit:        &squaredError{y: y},
			rng:         rng,
			maxFeatures: r.cfg.maxFeatures(nFeatures, false),
			minLeaf:     r.cfg.minLeaf(),
			maxDepth:    r.cfg.MaxDepth,
		}
		trees = append(trees, b.grow(bootstrap(rng, len(x)), 0))
	}

	r.trees = trees
	r.nFeatures = nFeatures
	return nil
}

// Predict returns the ensemble mean for a single feature row.
func (r *Regressor) Predict(x []float64) (float64, error) {
	if len(r.trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != r.nFeatures {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(x), r.nFeatures)
	}
	var sum float64
	for _, t := range r.trees {
		sum += t.predict(x)[0]
	}
	return sum / float64(len(r.trees)), nil
}

// Classifier is a random forest of Gini classification trees over classes
// 0..Classes-1. Probabilities average the leaf class distributions.
type Classifier struct {
	cfg       Config
	classes   int
	trees     []*node
	nFeatures int
}

// NewClassifier returns an unfitted Classifier for the given number of classes.
func NewClassifier(cfg Config, classes int) *Classifier {
	return &Classifier{cfg: cfg, classes: classes}
}

// Fit trains the ensemble from scratch. Labels must lie in [0, classes).
func (c *Classifier) Fit(x [][]float64, y []int) error {
	nFeatures, err := checkMatrix(x, len(y))
	if err != nil {
		return err
	}
	for i, label := range y {
		if label < 0 || label >= c.classes {
			return fmt.Errorf("forest: label %d at row %d outside [0,%d)", label, i, c.classes)
		}
	}

	master := rand.New(rand.NewSource(c.cfg.Seed))
	trees := make([]*node, 0, c.cfg.trees())
	for t := 0; t < c.cfg.trees(); t++ {
		rng := rand.New(rand.NewSource(master.Int63()))
		b := &builder{
			x:           x,
			crit:        newGini(y, c.classes),
			rng:         rng,
			maxFeatures: c.cfg.maxFeatures(nFeatures, true),
			minLeaf:     c.cfg.minLeaf(),
			maxDepth:    c.cfg.MaxDepth,
		}
		trees = append(trees, b.grow(bootstrap(rng, len(x)), 0))
	}

	c.trees = trees
	c.nFeatures = nFeatures
	return nil
}

// PredictProba returns one probability per class; the values sum to 1.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	if len(c.trees) == 0 {
		return nil, ErrNotFitted
	}
	if len(x) != c.nFeatures {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(x), c.nFeatures)
	}
	proba := make([]float64, c.classes)
	for _, t := range c.trees {
		for k, p := range t.predict(x) {
			proba[k] += p
		}
	}
	for k := range proba {
		proba[k] /= float64(len(c.trees))
	}
	return proba, nil
}

func checkMatrix(x [][]float64, n int) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(x) != n {
		return 0, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(x), n)
	}
	nFeatures := len(x[0])
	if nFeatures == 0 {
		return 0, fmt.Errorf("%w: rows have no features", ErrDimensionMismatch)
	}
	for i, row := range x {
		if len(row) != nFeatures {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), nFeatures)
		}
	}
	return nFeatures, nil
}
