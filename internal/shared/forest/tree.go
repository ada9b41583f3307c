// Package forest implements bagged decision-tree ensembles (random forests) for
// small tabular data sets: a regressor using squared error and a classifier
// using Gini impurity.
package forest

import (
	"math"
	"math/rand"
	"sort"
)

// node is a binary decision node. Leaves have nil children and carry value:
// a single mean for regression, a class distribution for classification.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     []float64
}

func (n *node) isLeaf() bool { return n.left == nil }

// predict walks the tree for x and returns the leaf value.
func (n *node) predict(x []float64) []float64 {
	cur := n
	for !cur.isLeaf() {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur.value
}

// criterion scores candidate splits. Samples start on the right side and are
// moved to the left one by one while scanning sorted feature values.
type criterion interface {
	reset(idx []int)
	move(i int)
	// score returns the weighted impurity of both children; lower is better.
	score() float64
	impurity(idx []int) float64
	leafValue(idx []int) []float64
}

// builder grows a single tree on a bootstrap sample.
type builder struct {
	x           [][]float64
	crit        criterion
	rng         *rand.Rand
	maxFeatures int
	minLeaf     int
	maxDepth    int
}

func (b *builder) grow(idx []int, depth int) *node {
	n := &node{value: b.crit.leafValue(idx)}

	if len(idx) < 2*b.minLeaf || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return n
	}
	parent := b.crit.impurity(idx)
	if parent <= 1e-12 {
		return n
	}

	feat, thr, best, ok := b.bestSplit(idx)
	if !ok || best >= parent-1e-12 {
		return n
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return n
	}

	n.feature = feat
	n.threshold = thr
	n.left = b.grow(left, depth+1)
	n.right = b.grow(right, depth+1)
	n.value = nil
	return n
}

// bestSplit searches maxFeatures randomly chosen features for the threshold
// that minimizes the children's weighted impurity.
func (b *builder) bestSplit(idx []int) (feat int, thr float64, best float64, ok bool) {
	nFeatures := len(b.x[0])
	candidates := b.rng.Perm(nFeatures)[:b.maxFeatures]

	best = math.Inf(1)
	sorted := make([]int, len(idx))
	for _, f := range candidates {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.x[sorted[a]][f] < b.x[sorted[c]][f]
		})

		b.crit.reset(sorted)
		for pos := 0; pos < len(sorted)-1; pos++ {
			b.crit.move(sorted[pos])

			lo, hi := b.x[sorted[pos]][f], b.x[sorted[pos+1]][f]
			if lo == hi {
				continue
			}
			if pos+1 < b.minLeaf || len(sorted)-pos-1 < b.minLeaf {
				continue
			}

			s := b.crit.score()
			if s < best {
				best = s
				feat = f
				thr = lo + (hi-lo)/2
				if thr >= hi {
					thr = lo
				}
				ok = true
			}
		}
	}
	return feat, thr, best, ok
}

// bootstrap draws n indices with replacement.
func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// squaredError is the regression criterion (sum of squared deviations).
type squaredError struct {
	y []float64

	lSum, lSq float64
	rSum, rSq float64
	ln, rn    int
}

func (c *squaredError) reset(idx []int) {
	c.lSum, c.lSq, c.ln = 0, 0, 0
	c.rSum, c.rSq, c.rn = 0, 0, 0
	for _, i := range idx {
		c.rSum += c.y[i]
		c.rSq += c.y[i] * c.y[i]
		c.rn++
	}
}

func (c *squaredError) move(i int) {
	v := c.y[i]
	c.lSum += v
	c.lSq += v * v
	c.ln++
	c.rSum -= v
	c.rSq -= v * v
	c.rn--
}

func (c *squaredError) score() float64 {
	return sse(c.lSum, c.lSq, c.ln) + sse(c.rSum, c.rSq, c.rn)
}

func (c *squaredError) impurity(idx []int) float64 {
	var sum, sq float64
	for _, i := range idx {
		sum += c.y[i]
		sq += c.y[i] * c.y[i]
	}
	return sse(sum, sq, len(idx))
}

func (c *squaredError) leafValue(idx []int) []float64 {
	var sum float64
	for _, i := range idx {
		sum += c.y[i]
	}
	return []float64{sum / float64(len(idx))}
}

func sse(sum, sq float64, n int) float64 {
	if n == 0 {
		return 0
	}
	v := sq - sum*sum/float64(n)
	if v < 0 {
		return 0
	}
	return v
}

// gini is the classification criterion (count-weighted Gini impurity).
type gini struct {
	y       []int
	classes int
	l, r    []float64
	ln, rn  int
}

func newGini(y []int, classes int) *gini {
	return &gini{
		y:       y,
		classes: classes,
		l:       make([]float64, classes),
		r:       make([]float64, classes),
	}
}

func (c *gini) reset(idx []int) {
	for k := range c.l {
		c.l[k], c.r[k] = 0, 0
	}
	c.ln, c.rn = 0, 0
	for _, i := range idx {
		c.r[c.y[i]]++
		c.rn++
	}
}

func (c *gini) move(i int) {
	k := c.y[i]
	c.l[k]++
	c.ln++
	c.r[k]--
	c.rn--
}

func (c *gini) score() float64 {
	return weightedGini(c.l, c.ln) + weightedGini(c.r, c.rn)
}

func (c *gini) impurity(idx []int) float64 {
	counts := make([]float64, c.classes)
	for _, i := range idx {
		counts[c.y[i]]++
	}
	return weightedGini(counts, len(idx))
}

func (c *gini) leafValue(idx []int) []float64 {
	dist := make([]float64, c.classes)
	for _, i := range idx {
		dist[c.y[i]]++
	}
	for k := range dist {
		dist[k] /= float64(len(idx))
	}
	return dist
}

// weightedGini returns n * gini(counts).
func weightedGini(counts []float64, n int) float64 {
	if n == 0 {
		return 0
	}
	var sq float64
	for _, c := range counts {
		sq += c * c
	}
	return float64(n) - sq/float64(n)
}
