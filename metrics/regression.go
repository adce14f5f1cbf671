// Package metrics provides the regression evaluation metrics used by the
// housing pipeline: MSE, RMSE, MAE and the R² coefficient of determination.
// All functions operate on gonum vectors and validate dimensions before
// computing.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// MSE returns the mean squared error between true and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, hperrors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, hperrors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE returns the root mean squared error, in the units of the target.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error between true and predicted values.
// More robust to outliers than MSE since differences are not squared.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, hperrors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, hperrors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score returns the coefficient of determination.
//
// R² = 1 - RSS/TSS. A perfect fit scores 1.0; predicting the mean scores 0;
// worse-than-mean predictions score negative. A target with no variance is an
// error, since TSS would be zero.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, hperrors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, hperrors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		trueVal := yTrue.AtVec(i)
		tss += (trueVal - yMean) * (trueVal - yMean)
		rss += (trueVal - yPred.AtVec(i)) * (trueVal - yPred.AtVec(i))
	}

	if tss == 0 {
		return 0, hperrors.NewValueError("R2Score", "no variance in yTrue")
	}
	return 1 - rss/tss, nil
}

// ColumnToVec copies the first column of an (n x 1) matrix into a VecDense.
// Convenience for bridging Predict output into the metric functions.
func ColumnToVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
