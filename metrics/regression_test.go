package metrics_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/metrics"
)

const tol = 1e-10

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMAE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect", vec(100, 200, 300), vec(100, 200, 300), 0},
		{"constant offset", vec(100, 200, 300), vec(110, 210, 310), 10},
		{"mixed signs", vec(0, 0), vec(5, -5), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := metrics.MAE(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("MAE failed: %v", err)
			}
			if math.Abs(got-tt.want) > tol {
				t.Errorf("MAE = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMSEAndRMSE(t *testing.T) {
	yTrue := vec(1, 2, 3)
	yPred := vec(2, 2, 5)

	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSE failed: %v", err)
	}
	// (1 + 0 + 4) / 3
	if math.Abs(mse-5.0/3.0) > tol {
		t.Errorf("MSE = %f, want %f", mse, 5.0/3.0)
	}

	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if math.Abs(rmse-math.Sqrt(5.0/3.0)) > tol {
		t.Errorf("RMSE = %f, want %f", rmse, math.Sqrt(5.0/3.0))
	}
}

func TestR2Score(t *testing.T) {
	yTrue := vec(1, 2, 3, 4)

	perfect, err := metrics.R2Score(yTrue, vec(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(perfect-1.0) > tol {
		t.Errorf("perfect predictions: R² = %f, want 1.0", perfect)
	}

	meanOnly, err := metrics.R2Score(yTrue, vec(2.5, 2.5, 2.5, 2.5))
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(meanOnly) > tol {
		t.Errorf("mean predictions: R² = %f, want 0", meanOnly)
	}
}

func TestR2Score_NoVariance(t *testing.T) {
	if _, err := metrics.R2Score(vec(5, 5, 5), vec(4, 5, 6)); err == nil {
		t.Errorf("expected error when yTrue has no variance")
	}
}

func TestDimensionValidation(t *testing.T) {
	if _, err := metrics.MAE(vec(1, 2), vec(1, 2, 3)); err == nil {
		t.Errorf("MAE: expected error for mismatched lengths")
	}
	if _, err := metrics.MSE(vec(1, 2, 3), vec(1, 2)); err == nil {
		t.Errorf("MSE: expected error for mismatched lengths")
	}
	if _, err := metrics.R2Score(vec(1, 2), vec(1, 2, 3)); err == nil {
		t.Errorf("R2Score: expected error for mismatched lengths")
	}
}

func TestColumnToVec(t *testing.T) {
	m := mat.NewDense(3, 1, []float64{7, 8, 9})
	v := metrics.ColumnToVec(m)
	for i, want := range []float64{7, 8, 9} {
		if v.AtVec(i) != want {
			t.Errorf("ColumnToVec[%d] = %f, want %f", i, v.AtVec(i), want)
		}
	}
}
