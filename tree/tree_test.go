package tree_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
	"github.com/ezoic/houseprice/tree"
)

func TestRegressionTree_PerfectSplit(t *testing.T) {
	// One feature, two clusters. A single split recovers both means exactly.
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := mat.NewDense(6, 1, []float64{5, 5, 5, 50, 50, 50})

	rt := tree.NewRegressionTree(tree.WithMaxDepth(3))
	if err := rt.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if got := rt.PredictRow([]float64{2}); got != 5 {
		t.Errorf("low cluster: predicted %f, want 5", got)
	}
	if got := rt.PredictRow([]float64{11}); got != 50 {
		t.Errorf("high cluster: predicted %f, want 50", got)
	}
}

func TestRegressionTree_LearnsLinearTrend(t *testing.T) {
	// y = 3x; a deep enough tree approximates the line on the training range.
	n := 100
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, 3*float64(i))
	}

	rt := tree.NewRegressionTree(tree.WithMaxDepth(10), tree.WithMinSamplesLeaf(1))
	if err := rt.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := rt.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	var maxErr float64
	for i := 0; i < n; i++ {
		e := math.Abs(preds.At(i, 0) - y.At(i, 0))
		if e > maxErr {
			maxErr = e
		}
	}
	if maxErr > 3 {
		t.Errorf("max training error %f, want <= 3 (one step of the trend)", maxErr)
	}
}

func TestRegressionTree_MaxDepthLimitsSplits(t *testing.T) {
	n := 64
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i))
	}

	shallow := tree.NewRegressionTree(tree.WithMaxDepth(1))
	if err := shallow.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Depth 1 means a single split: at most two distinct predictions.
	distinct := map[float64]bool{}
	for i := 0; i < n; i++ {
		distinct[shallow.PredictRow([]float64{float64(i)})] = true
	}
	if len(distinct) > 2 {
		t.Errorf("depth-1 tree produced %d distinct leaf values, want <= 2", len(distinct))
	}
}

func TestRegressionTree_FeatureImportances(t *testing.T) {
	// Feature 0 fully determines y; feature 1 is constant noise-free filler.
	n := 40
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, 1.0)
		y.Set(i, 0, float64(i)*2)
	}

	rt := tree.NewRegressionTree(tree.WithMaxDepth(6))
	if err := rt.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	imps := rt.FeatureImportances()
	if len(imps) != 2 {
		t.Fatalf("expected 2 importances, got %d", len(imps))
	}

	var sum float64
	for _, imp := range imps {
		sum += imp
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("importances sum to %f, want 1", sum)
	}
	if imps[0] < 0.99 {
		t.Errorf("informative feature importance %f, want ~1", imps[0])
	}
	if imps[1] != 0 {
		t.Errorf("constant feature importance %f, want 0", imps[1])
	}
}

func TestRegressionTree_NotFitted(t *testing.T) {
	rt := tree.NewRegressionTree()
	_, err := rt.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *hperrors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestRegressionTree_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	rt := tree.NewRegressionTree()
	if err := rt.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := rt.Predict(mat.NewDense(1, 3, nil))
	var de *hperrors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}
