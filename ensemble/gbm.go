package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/core/model"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
	"github.com/ezoic/houseprice/pkg/log"
	"github.com/ezoic/houseprice/tree"
)

// GradientBoostingRegressor fits depth-limited regression trees to the
// residuals of the running ensemble (L2 boosting). The initial score is the
// target mean; each round's tree contributes LearningRate times its output.
type GradientBoostingRegressor struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	RandomState     int64

	trees              []*tree.RegressionTree
	initScore          float64
	nFeatures          int
	featureImportances []float64
}

// NewGradientBoostingRegressor creates a booster with default hyperparameters.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		state:           model.NewStateManager(),
		logger:          log.GetLoggerWithName("GradientBoostingRegressor"),
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		RandomState:     42,
	}
}

// WithNEstimators sets the number of boosting rounds.
func (gb *GradientBoostingRegressor) WithNEstimators(n int) *GradientBoostingRegressor {
	gb.NEstimators = n
	return gb
}

// WithLearningRate sets the shrinkage applied to each round's tree.
func (gb *GradientBoostingRegressor) WithLearningRate(lr float64) *GradientBoostingRegressor {
	gb.LearningRate = lr
	return gb
}

// WithMaxDepth limits the depth of each round's tree.
func (gb *GradientBoostingRegressor) WithMaxDepth(d int) *GradientBoostingRegressor {
	gb.MaxDepth = d
	return gb
}

// WithMinSamplesLeaf sets the minimum samples required in a leaf.
func (gb *GradientBoostingRegressor) WithMinSamplesLeaf(n int) *GradientBoostingRegressor {
	gb.MinSamplesLeaf = n
	return gb
}

// WithRandomState seeds per-round tree construction.
func (gb *GradientBoostingRegressor) WithRandomState(seed int64) *GradientBoostingRegressor {
	gb.RandomState = seed
	return gb
}

// Fit runs the boosting loop: each round fits a tree to the current
// residuals and folds it into the running prediction with shrinkage.
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) (err error) {
	defer hperrors.Recover(&err, "GradientBoostingRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return hperrors.NewModelError("GradientBoostingRegressor.Fit", "empty data", hperrors.ErrEmptyData)
	}
	if yRows != rows {
		return hperrors.NewDimensionError("GradientBoostingRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return hperrors.NewDimensionError("GradientBoostingRegressor.Fit", 1, yCols, 1)
	}
	if gb.NEstimators < 1 {
		return hperrors.NewValueError("GradientBoostingRegressor.Fit", "NEstimators must be >= 1")
	}
	if gb.LearningRate <= 0 {
		return hperrors.NewValueError("GradientBoostingRegressor.Fit", "LearningRate must be > 0")
	}

	gb.nFeatures = cols
	gb.trees = make([]*tree.RegressionTree, 0, gb.NEstimators)

	// Init score: mean target minimizes L2 loss for a constant model.
	var sum float64
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	gb.initScore = sum / float64(rows)

	gb.logger.Debug("boosting",
		"rounds", gb.NEstimators,
		"learning_rate", gb.LearningRate,
		"max_depth", gb.MaxDepth,
		"samples", rows)

	predictions := make([]float64, rows)
	for i := range predictions {
		predictions[i] = gb.initScore
	}

	residuals := mat.NewDense(rows, 1, nil)
	rowBuf := make([]float64, cols)

	for round := 0; round < gb.NEstimators; round++ {
		for i := 0; i < rows; i++ {
			residuals.Set(i, 0, y.At(i, 0)-predictions[i])
		}

		rt := tree.NewRegressionTree(
			tree.WithMaxDepth(gb.MaxDepth),
			tree.WithMinSamplesSplit(gb.MinSamplesSplit),
			tree.WithMinSamplesLeaf(gb.MinSamplesLeaf),
			tree.WithRandomState(gb.RandomState+int64(round)),
		)
		if fitErr := rt.Fit(X, residuals); fitErr != nil {
			return fitErr
		}
		gb.trees = append(gb.trees, rt)

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				rowBuf[j] = X.At(i, j)
			}
			predictions[i] += gb.LearningRate * rt.PredictRow(rowBuf)
		}
	}

	// Accumulate importances over rounds.
	gb.featureImportances = make([]float64, cols)
	counted := 0
	for _, rt := range gb.trees {
		imps := rt.FeatureImportances()
		allZero := true
		for j, imp := range imps {
			gb.featureImportances[j] += imp
			if imp != 0 {
				allZero = false
			}
		}
		if !allZero {
			counted++
		}
	}
	if counted > 0 {
		for j := range gb.featureImportances {
			gb.featureImportances[j] /= float64(counted)
		}
	}

	gb.state.SetNFeatures(cols)
	gb.state.SetFitted()
	return nil
}

// Predict returns initScore + lr * sum(tree outputs) per row.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gb.state.IsFitted() {
		return nil, hperrors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != gb.nFeatures {
		return nil, hperrors.NewDimensionError("GradientBoostingRegressor.Predict", gb.nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		pred := gb.initScore
		for _, rt := range gb.trees {
			pred += gb.LearningRate * rt.PredictRow(row)
		}
		out.Set(i, 0, pred)
	}
	return out, nil
}

// FeatureImportances returns per-feature importances averaged over rounds.
func (gb *GradientBoostingRegressor) FeatureImportances() []float64 {
	if !gb.state.IsFitted() {
		return nil
	}
	out := make([]float64, len(gb.featureImportances))
	copy(out, gb.featureImportances)
	return out
}

// IsFitted reports whether the booster has been trained.
func (gb *GradientBoostingRegressor) IsFitted() bool {
	return gb.state.IsFitted()
}
