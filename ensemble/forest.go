// Package ensemble implements the three tree ensembles of the housing
// pipeline: a bagged random forest and a gradient boosting machine (used
// twice with independent configurations), plus equal-weight prediction
// averaging across fitted models.
package ensemble

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/core/model"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
	"github.com/ezoic/houseprice/pkg/log"
	"github.com/ezoic/houseprice/tree"
)

// RandomForestRegressor is a bagged ensemble of regression trees. Each tree
// trains on a bootstrap sample of the rows; predictions are the mean over
// trees.
type RandomForestRegressor struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // per-split feature candidates; 0 = all
	RandomState     int64

	trees              []*tree.RegressionTree
	nFeatures          int
	featureImportances []float64
}

// NewRandomForestRegressor creates a forest with default hyperparameters.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		state:           model.NewStateManager(),
		logger:          log.GetLoggerWithName("RandomForestRegressor"),
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		RandomState:     42,
	}
}

// WithNEstimators sets the number of trees.
func (rf *RandomForestRegressor) WithNEstimators(n int) *RandomForestRegressor {
	rf.NEstimators = n
	return rf
}

// WithMaxDepth sets the maximum depth of each tree. Zero means unlimited.
func (rf *RandomForestRegressor) WithMaxDepth(d int) *RandomForestRegressor {
	rf.MaxDepth = d
	return rf
}

// WithMinSamplesSplit sets the minimum samples required to split a node.
func (rf *RandomForestRegressor) WithMinSamplesSplit(n int) *RandomForestRegressor {
	rf.MinSamplesSplit = n
	return rf
}

// WithMaxFeatures sets the per-split feature candidate count. Zero uses all.
func (rf *RandomForestRegressor) WithMaxFeatures(n int) *RandomForestRegressor {
	rf.MaxFeatures = n
	return rf
}

// WithRandomState seeds bootstrap sampling; each tree derives its own seed.
func (rf *RandomForestRegressor) WithRandomState(seed int64) *RandomForestRegressor {
	rf.RandomState = seed
	return rf
}

// Fit trains the forest. Trees are independent and train concurrently; the
// per-tree seeds keep the result deterministic for a fixed RandomState.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer hperrors.Recover(&err, "RandomForestRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return hperrors.NewModelError("RandomForestRegressor.Fit", "empty data", hperrors.ErrEmptyData)
	}
	if yRows != rows {
		return hperrors.NewDimensionError("RandomForestRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return hperrors.NewDimensionError("RandomForestRegressor.Fit", 1, yCols, 1)
	}
	if rf.NEstimators < 1 {
		return hperrors.NewValueError("RandomForestRegressor.Fit", "NEstimators must be >= 1")
	}

	rf.nFeatures = cols
	rf.trees = make([]*tree.RegressionTree, rf.NEstimators)

	rf.logger.Debug("fitting forest",
		"n_estimators", rf.NEstimators,
		"max_depth", rf.MaxDepth,
		"samples", rows,
		"features", cols)

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	errCh := make(chan error, rf.NEstimators)

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(treeIdx int) {
			defer wg.Done()
			defer func() { <-sem }()

			seed := rf.RandomState + int64(treeIdx)
			// Sampling seed, not cryptographic.
			rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

			// Bootstrap sample: indices, not row copies.
			indices := make([]int, rows)
			for j := range indices {
				indices[j] = rng.IntN(rows)
			}

			rt := tree.NewRegressionTree(
				tree.WithMaxDepth(rf.MaxDepth),
				tree.WithMinSamplesSplit(rf.MinSamplesSplit),
				tree.WithMinSamplesLeaf(rf.MinSamplesLeaf),
				tree.WithMaxFeatures(rf.MaxFeatures),
				tree.WithRandomState(seed),
			)
			if fitErr := rt.FitIndices(X, y, indices); fitErr != nil {
				errCh <- fitErr
				return
			}
			rf.trees[treeIdx] = rt
		}(i)
	}
	wg.Wait()
	close(errCh)

	for fitErr := range errCh {
		if fitErr != nil {
			return fitErr
		}
	}

	// Average importances over trees.
	rf.featureImportances = make([]float64, cols)
	for _, rt := range rf.trees {
		for j, imp := range rt.FeatureImportances() {
			rf.featureImportances[j] += imp
		}
	}
	for j := range rf.featureImportances {
		rf.featureImportances[j] /= float64(len(rf.trees))
	}

	rf.state.SetNFeatures(cols)
	rf.state.SetFitted()
	return nil
}

// Predict returns the mean prediction over all trees as an (n x 1) column.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.state.IsFitted() {
		return nil, hperrors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != rf.nFeatures {
		return nil, hperrors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		var sum float64
		for _, rt := range rf.trees {
			sum += rt.PredictRow(row)
		}
		out.Set(i, 0, sum/float64(len(rf.trees)))
	}
	return out, nil
}

// FeatureImportances returns per-feature importances averaged over trees.
// Scores sum to 1 whenever at least one tree found a split.
func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	if !rf.state.IsFitted() {
		return nil
	}
	out := make([]float64, len(rf.featureImportances))
	copy(out, rf.featureImportances)
	return out
}

// IsFitted reports whether the forest has been trained.
func (rf *RandomForestRegressor) IsFitted() bool {
	return rf.state.IsFitted()
}
