package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/core/model"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// Average predicts X with every model and returns the unweighted mean of
// their outputs as an (n x 1) column. All models must already be fitted and
// agree on the feature count.
func Average(models []model.Regressor, X mat.Matrix) (mat.Matrix, error) {
	if len(models) == 0 {
		return nil, hperrors.NewValueError("ensemble.Average", "no models given")
	}

	rows, _ := X.Dims()
	sum := mat.NewDense(rows, 1, nil)

	for _, m := range models {
		pred, err := m.Predict(X)
		if err != nil {
			return nil, err
		}
		pRows, pCols := pred.Dims()
		if pRows != rows || pCols != 1 {
			return nil, hperrors.NewDimensionError("ensemble.Average", rows, pRows, 0)
		}
		for i := 0; i < rows; i++ {
			sum.Set(i, 0, sum.At(i, 0)+pred.At(i, 0))
		}
	}

	scale := 1.0 / float64(len(models))
	for i := 0; i < rows; i++ {
		sum.Set(i, 0, sum.At(i, 0)*scale)
	}
	return sum, nil
}
