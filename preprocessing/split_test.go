package preprocessing_test

import (
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/preprocessing"
)

func makeSplitData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*10)
		y.Set(i, 0, float64(i)*100)
	}
	return X, y
}

func TestTrainTestSplit_Sizes(t *testing.T) {
	X, y := makeSplitData(10)

	XTrain, XTest, yTrain, yTest, err := preprocessing.TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	if r, _ := XTrain.Dims(); r != 8 {
		t.Errorf("expected 8 training rows, got %d", r)
	}
	if r, _ := XTest.Dims(); r != 2 {
		t.Errorf("expected 2 test rows, got %d", r)
	}
	if r, _ := yTrain.Dims(); r != 8 {
		t.Errorf("expected 8 training targets, got %d", r)
	}
	if r, _ := yTest.Dims(); r != 2 {
		t.Errorf("expected 2 test targets, got %d", r)
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	X, y := makeSplitData(20)

	_, XTest1, _, _, err := preprocessing.TrainTestSplit(X, y, 0.25, 7)
	if err != nil {
		t.Fatalf("first split failed: %v", err)
	}
	_, XTest2, _, _, err := preprocessing.TrainTestSplit(X, y, 0.25, 7)
	if err != nil {
		t.Fatalf("second split failed: %v", err)
	}

	if !mat.Equal(XTest1, XTest2) {
		t.Errorf("same seed must produce the same split")
	}
}

func TestTrainTestSplit_Partition(t *testing.T) {
	X, y := makeSplitData(15)

	XTrain, XTest, _, _, err := preprocessing.TrainTestSplit(X, y, 0.2, 99)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	// Together the partitions must cover every original row exactly once.
	var rows []int
	collect := func(m *mat.Dense) {
		r, _ := m.Dims()
		for i := 0; i < r; i++ {
			rows = append(rows, int(m.At(i, 0)))
		}
	}
	collect(XTrain)
	collect(XTest)

	sort.Ints(rows)
	for i, v := range rows {
		if v != i {
			t.Fatalf("partition is not a permutation of the input rows: %v", rows)
		}
	}
}

func TestTrainTestSplit_RowAlignment(t *testing.T) {
	X, y := makeSplitData(12)

	XTrain, XTest, yTrain, yTest, err := preprocessing.TrainTestSplit(X, y, 0.25, 3)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	// y was built as 100*X[:,0]; alignment must survive the shuffle.
	check := func(Xm, ym *mat.Dense) {
		r, _ := Xm.Dims()
		for i := 0; i < r; i++ {
			if ym.At(i, 0) != Xm.At(i, 0)*100 {
				t.Errorf("row %d: target %f does not match features", i, ym.At(i, 0))
			}
		}
	}
	check(XTrain, yTrain)
	check(XTest, yTest)
}

func TestTrainTestSplit_BadFraction(t *testing.T) {
	X, y := makeSplitData(5)

	if _, _, _, _, err := preprocessing.TrainTestSplit(X, y, 0, 1); err == nil {
		t.Errorf("expected error for zero test fraction")
	}
	if _, _, _, _, err := preprocessing.TrainTestSplit(X, y, 1, 1); err == nil {
		t.Errorf("expected error for full test fraction")
	}
}
