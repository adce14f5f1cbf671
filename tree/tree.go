// Package tree implements the regression tree used as the base learner by
// both ensemble models. Splits minimize within-node variance; per-feature
// importances accumulate the weighted impurity decrease of every split.
package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/core/model"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// Node is a single node in a fitted regression tree.
type Node struct {
	IsLeaf    bool
	Feature   int     // split feature (internal nodes)
	Threshold float64 // split threshold (internal nodes)
	Left      *Node   // values <= threshold
	Right     *Node   // values > threshold
	Value     float64 // mean target (leaf nodes)
	NSamples  int
}

// RegressionTree is a CART-style decision tree regressor.
type RegressionTree struct {
	state *model.StateManager

	// Hyperparameters
	maxDepth        int // 0 = unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // features considered per split; 0 = all
	randomState     int64

	// Fitted state
	root               *Node
	nFeatures          int
	featureImportances []float64
}

// Option configures a RegressionTree.
type Option func(*RegressionTree)

// WithMaxDepth limits tree depth. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(t *RegressionTree) { t.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(t *RegressionTree) { t.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples required in a leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *RegressionTree) { t.minSamplesLeaf = n }
}

// WithMaxFeatures sets how many features are considered per split.
// Zero considers all features.
func WithMaxFeatures(n int) Option {
	return func(t *RegressionTree) { t.maxFeatures = n }
}

// WithRandomState seeds the feature subsampling RNG.
func WithRandomState(seed int64) Option {
	return func(t *RegressionTree) { t.randomState = seed }
}

// NewRegressionTree creates a regression tree with the given options.
func NewRegressionTree(opts ...Option) *RegressionTree {
	t := &RegressionTree{
		state:           model.NewStateManager(),
		maxDepth:        0,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     0,
		randomState:     -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit trains the tree on all rows of X.
func (t *RegressionTree) Fit(X, y mat.Matrix) (err error) {
	defer hperrors.Recover(&err, "RegressionTree.Fit")

	rows, _ := X.Dims()
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	return t.FitIndices(X, y, indices)
}

// FitIndices trains the tree on the given row indices of X. Bagging ensembles
// pass bootstrap index samples here instead of copying rows.
func (t *RegressionTree) FitIndices(X, y mat.Matrix, indices []int) (err error) {
	defer hperrors.Recover(&err, "RegressionTree.FitIndices")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 || len(indices) == 0 {
		return hperrors.NewModelError("RegressionTree.Fit", "empty data", hperrors.ErrEmptyData)
	}
	if yRows != rows {
		return hperrors.NewDimensionError("RegressionTree.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return hperrors.NewDimensionError("RegressionTree.Fit", 1, yCols, 1)
	}

	t.nFeatures = cols
	t.featureImportances = make([]float64, cols)

	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		targets[i] = y.At(i, 0)
	}

	var rng *rand.Rand
	if t.maxFeatures > 0 && t.maxFeatures < cols {
		seed := t.randomState
		if seed < 0 {
			seed = 0
		}
		// Sampling seed, not cryptographic.
		rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)+1))
	}

	t.root = t.buildNode(X, targets, indices, 0, rng)

	// Normalize importances to sum to 1.
	var total float64
	for _, imp := range t.featureImportances {
		total += imp
	}
	if total > 0 {
		for j := range t.featureImportances {
			t.featureImportances[j] /= total
		}
	}

	t.state.SetNFeatures(cols)
	t.state.SetFitted()
	return nil
}

// buildNode grows the tree recursively.
func (t *RegressionTree) buildNode(X mat.Matrix, targets []float64, indices []int, depth int, rng *rand.Rand) *Node {
	mean, variance := meanVariance(targets, indices)

	if (t.maxDepth > 0 && depth >= t.maxDepth) ||
		len(indices) < t.minSamplesSplit ||
		variance < 1e-12 {
		return &Node{IsLeaf: true, Value: mean, NSamples: len(indices)}
	}

	feature, threshold, gain := t.findBestSplit(X, targets, indices, rng)
	if feature < 0 {
		return &Node{IsLeaf: true, Value: mean, NSamples: len(indices)}
	}

	var leftIdx, rightIdx []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			leftIdx = append(leftIdx, idx)
		} else {
			rightIdx = append(rightIdx, idx)
		}
	}
	if len(leftIdx) < t.minSamplesLeaf || len(rightIdx) < t.minSamplesLeaf {
		return &Node{IsLeaf: true, Value: mean, NSamples: len(indices)}
	}

	t.featureImportances[feature] += gain * float64(len(indices))

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		NSamples:  len(indices),
		Left:      t.buildNode(X, targets, leftIdx, depth+1, rng),
		Right:     t.buildNode(X, targets, rightIdx, depth+1, rng),
	}
}

// findBestSplit scans candidate features for the split with the largest
// variance reduction. Returns feature -1 when no valid split exists.
func (t *RegressionTree) findBestSplit(X mat.Matrix, targets []float64, indices []int, rng *rand.Rand) (int, float64, float64) {
	_, cols := X.Dims()

	features := make([]int, cols)
	for j := range features {
		features[j] = j
	}
	if rng != nil && t.maxFeatures > 0 && t.maxFeatures < cols {
		rng.Shuffle(cols, func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:t.maxFeatures]
	}

	_, parentVar := meanVariance(targets, indices)
	n := float64(len(indices))

	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	type pair struct {
		value  float64
		target float64
	}
	pairs := make([]pair, len(indices))

	for _, feature := range features {
		for i, idx := range indices {
			pairs[i] = pair{value: X.At(idx, feature), target: targets[idx]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		// Prefix sums allow O(1) variance computation per split point.
		var leftSum, leftSumSq float64
		var totalSum, totalSumSq float64
		for _, p := range pairs {
			totalSum += p.target
			totalSumSq += p.target * p.target
		}

		for i := 0; i < len(pairs)-1; i++ {
			leftSum += pairs[i].target
			leftSumSq += pairs[i].target * pairs[i].target

			// Cannot split between equal values.
			if pairs[i].value == pairs[i+1].value {
				continue
			}

			nLeft := float64(i + 1)
			nRight := n - nLeft
			if int(nLeft) < t.minSamplesLeaf || int(nRight) < t.minSamplesLeaf {
				continue
			}

			leftVar := leftSumSq/nLeft - (leftSum/nLeft)*(leftSum/nLeft)
			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq
			rightVar := rightSumSq/nRight - (rightSum/nRight)*(rightSum/nRight)

			gain := parentVar - (nLeft/n)*leftVar - (nRight/n)*rightVar
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// Predict returns predictions for every row of X as an (n x 1) column.
func (t *RegressionTree) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, hperrors.NewNotFittedError("RegressionTree", "Predict")
	}

	rows, cols := X.Dims()
	if cols != t.nFeatures {
		return nil, hperrors.NewDimensionError("RegressionTree.Predict", t.nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		out.Set(i, 0, t.PredictRow(row))
	}
	return out, nil
}

// PredictRow walks the tree for a single feature vector.
func (t *RegressionTree) PredictRow(features []float64) float64 {
	node := t.root
	for node != nil && !node.IsLeaf {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return math.NaN()
	}
	return node.Value
}

// FeatureImportances returns the normalized impurity-decrease importances.
func (t *RegressionTree) FeatureImportances() []float64 {
	if !t.state.IsFitted() {
		return nil
	}
	out := make([]float64, len(t.featureImportances))
	copy(out, t.featureImportances)
	return out
}

// IsFitted reports whether the tree has been trained.
func (t *RegressionTree) IsFitted() bool {
	return t.state.IsFitted()
}

// meanVariance returns the mean and population variance of targets at the
// given indices.
func meanVariance(targets []float64, indices []int) (float64, float64) {
	if len(indices) == 0 {
		return 0, 0
	}
	var sum float64
	for _, idx := range indices {
		sum += targets[idx]
	}
	mean := sum / float64(len(indices))

	var sumSq float64
	for _, idx := range indices {
		d := targets[idx] - mean
		sumSq += d * d
	}
	return mean, sumSq / float64(len(indices))
}
