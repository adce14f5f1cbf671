// Package pipeline ties loading, cleaning, scaling, and the three ensemble
// models into one training run, and exposes evaluation, single-house pricing,
// and feature-importance reporting over the result.
package pipeline

import (
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/houseprice/core/model"
	"github.com/ezoic/houseprice/dataset"
	"github.com/ezoic/houseprice/ensemble"
	"github.com/ezoic/houseprice/metrics"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
	"github.com/ezoic/houseprice/pkg/log"
	"github.com/ezoic/houseprice/preprocessing"
)

// TrainResult holds everything downstream stages need: the fitted models,
// the fitted scaler and encoders, feature bookkeeping, and the held-out
// test split (already scaled).
type TrainResult struct {
	Models []model.Regressor
	Forest *ensemble.RandomForestRegressor

	Scaler   *preprocessing.StandardScaler
	Encoders map[string]*preprocessing.LabelEncoder

	FeatureNames []string
	Medians      []float64

	XTest *mat.Dense
	YTest *mat.Dense

	cfg Config
}

// Train runs the full pipeline: load, clean, split, impute, scale, and fit
// the forest plus the two boosters.
func Train(cfg Config) (*TrainResult, error) {
	logger := log.GetLoggerWithName("pipeline")

	table, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded dataset", "path", cfg.DataPath, "rows", table.NumRows())

	cleaned, err := dataset.Clean(table, dataset.CleanConfig{
		Target:             cfg.Target,
		NumericColumns:     cfg.NumericColumns,
		DerivedColumns:     cfg.DerivedColumns,
		CategoricalColumns: cfg.CategoricalColumns,
		FullTableImpute:    cfg.FullTableImpute,
	})
	if err != nil {
		return nil, err
	}

	X, y, featureNames, err := dataset.FeatureMatrix(cleaned.Table, cfg.Target)
	if err != nil {
		return nil, err
	}

	XTrain, XTest, yTrain, yTest, err := preprocessing.TrainTestSplit(X, y, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}

	// Medians come from the training split; with FullTableImpute the table
	// has no gaps left, so the fills below are no-ops.
	medians := dataset.ColumnMedians(XTrain)
	if err := dataset.FillMissing(XTrain, medians); err != nil {
		return nil, err
	}
	if err := dataset.FillMissing(XTest, medians); err != nil {
		return nil, err
	}

	scaler := preprocessing.NewStandardScaler()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return nil, err
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return nil, err
	}

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	logger.Info("split data",
		"train_rows", trainRows,
		"test_rows", testRows,
		"features", len(featureNames))

	forest := ensemble.NewRandomForestRegressor().
		WithNEstimators(cfg.Forest.NEstimators).
		WithMaxDepth(cfg.Forest.MaxDepth).
		WithRandomState(cfg.Seed)

	boostA := ensemble.NewGradientBoostingRegressor().
		WithNEstimators(cfg.BoostA.NEstimators).
		WithLearningRate(cfg.BoostA.LearningRate).
		WithMaxDepth(cfg.BoostA.MaxDepth).
		WithRandomState(cfg.Seed)

	boostB := ensemble.NewGradientBoostingRegressor().
		WithNEstimators(cfg.BoostB.NEstimators).
		WithLearningRate(cfg.BoostB.LearningRate).
		WithMaxDepth(cfg.BoostB.MaxDepth).
		WithRandomState(cfg.Seed + 1)

	models := []model.Regressor{forest, boostA, boostB}
	names := []string{"random_forest", "gradient_boost_a", "gradient_boost_b"}
	for i, m := range models {
		logger.Info("fitting model", "model", names[i])
		if err := m.Fit(XTrainScaled, yTrain); err != nil {
			return nil, err
		}
	}

	return &TrainResult{
		Models:       models,
		Forest:       forest,
		Scaler:       scaler,
		Encoders:     cleaned.Encoders,
		FeatureNames: featureNames,
		Medians:      medians,
		XTest:        mat.DenseCopyOf(XTestScaled),
		YTest:        yTest,
		cfg:          cfg,
	}, nil
}

// EvaluateEnsemble averages the three models' test predictions with equal
// weight and returns MAE and R² against the held-out targets.
func EvaluateEnsemble(res *TrainResult) (mae, r2 float64, err error) {
	avg, err := ensemble.Average(res.Models, res.XTest)
	if err != nil {
		return 0, 0, err
	}

	yTrue := metrics.ColumnToVec(res.YTest)
	yPred := metrics.ColumnToVec(avg)

	mae, err = metrics.MAE(yTrue, yPred)
	if err != nil {
		return 0, 0, err
	}
	r2, err = metrics.R2Score(yTrue, yPred)
	if err != nil {
		return 0, 0, err
	}
	return mae, r2, nil
}

// PredictOne prices a single house from a sparse feature map. Features not
// supplied default to the training medians (or zero with ZeroFill); a name
// outside the training feature set is an error, not a silent zero. The
// prediction comes from the bagged-tree model.
func PredictOne(res *TrainResult, features map[string]float64) (float64, error) {
	index := make(map[string]int, len(res.FeatureNames))
	for j, name := range res.FeatureNames {
		index[name] = j
	}

	row := make([]float64, len(res.FeatureNames))
	if !res.cfg.ZeroFill {
		copy(row, res.Medians)
	}

	for name, value := range features {
		j, ok := index[name]
		if !ok {
			return 0, hperrors.NewValueError("pipeline.PredictOne", "unknown feature "+name)
		}
		row[j] = value
	}

	X := mat.NewDense(1, len(row), row)
	scaled, err := res.Scaler.Transform(X)
	if err != nil {
		return 0, err
	}

	pred, err := res.Forest.Predict(scaled)
	if err != nil {
		return 0, err
	}
	return pred.At(0, 0), nil
}

// Importance pairs a feature name with its score.
type Importance struct {
	Name  string
	Score float64
}

// FeatureImportances returns the forest's importances paired with feature
// names, sorted descending by score.
func FeatureImportances(res *TrainResult) ([]Importance, error) {
	scores := res.Forest.FeatureImportances()
	if scores == nil {
		return nil, hperrors.NewNotFittedError("RandomForestRegressor", "FeatureImportances")
	}
	if len(scores) != len(res.FeatureNames) {
		return nil, hperrors.NewDimensionError("pipeline.FeatureImportances", len(res.FeatureNames), len(scores), 1)
	}

	out := make([]Importance, len(scores))
	for j, score := range scores {
		out[j] = Importance{Name: res.FeatureNames[j], Score: score}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out, nil
}

// SaveEncoders writes every fitted label encoder to dir as
// <column>_encoder.json so category codes survive the run.
func (res *TrainResult) SaveEncoders(dir string) error {
	for column, enc := range res.Encoders {
		path := filepath.Join(dir, column+"_encoder.json")
		if err := enc.Save(path); err != nil {
			return errors.Wrapf(err, "pipeline: save encoder for %s", column)
		}
	}
	return nil
}
