package preprocessing

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// TrainTestSplit partitions X and y into train and test sets. testFraction is
// the share of rows assigned to the test partition (0 < testFraction < 1). The
// shuffle is a seeded Fisher-Yates, so the split is reproducible for a fixed
// seed.
func TrainTestSplit(X, y mat.Matrix, testFraction float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return nil, nil, nil, nil, hperrors.NewModelError("TrainTestSplit", "empty data", hperrors.ErrEmptyData)
	}
	if yRows != rows {
		return nil, nil, nil, nil, hperrors.NewDimensionError("TrainTestSplit", rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, nil, nil, nil, hperrors.NewDimensionError("TrainTestSplit", 1, yCols, 1)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, hperrors.NewValueError("TrainTestSplit", "testFraction must be in (0, 1)")
	}

	nTest := int(float64(rows) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= rows {
		return nil, nil, nil, nil, hperrors.NewValueError("TrainTestSplit", "not enough rows for the requested split")
	}
	nTrain := rows - nTest

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	// Sampling seed, not cryptographic.
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	rng.Shuffle(rows, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	XTrain = mat.NewDense(nTrain, cols, nil)
	XTest = mat.NewDense(nTest, cols, nil)
	yTrain = mat.NewDense(nTrain, 1, nil)
	yTest = mat.NewDense(nTest, 1, nil)

	for i, idx := range indices[:nTrain] {
		for j := 0; j < cols; j++ {
			XTrain.Set(i, j, X.At(idx, j))
		}
		yTrain.Set(i, 0, y.At(idx, 0))
	}
	for i, idx := range indices[nTrain:] {
		for j := 0; j < cols; j++ {
			XTest.Set(i, j, X.At(idx, j))
		}
		yTest.Set(i, 0, y.At(idx, 0))
	}

	return XTrain, XTest, yTrain, yTest, nil
}
