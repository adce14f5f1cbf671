package pipeline

// ForestConfig holds the bagged-tree hyperparameters.
type ForestConfig struct {
	NEstimators int
	MaxDepth    int
}

// BoostConfig holds the gradient-boosting hyperparameters.
type BoostConfig struct {
	NEstimators  int
	LearningRate float64
	MaxDepth     int
}

// Config is the explicit pipeline configuration. Everything the reference run
// hard-codes lives here so callers can override any of it.
type Config struct {
	// DataPath is the spreadsheet to train on (.xlsx or .csv).
	DataPath string

	// Target is the sale-price column.
	Target string

	// NumericColumns get thousands-separator stripping during cleaning.
	NumericColumns []string

	// DerivedColumns are dropped from the table when present.
	DerivedColumns []string

	// CategoricalColumns are label-encoded.
	CategoricalColumns []string

	// TestFraction of rows held out for evaluation.
	TestFraction float64

	// Seed drives the split and every model's sampling.
	Seed int64

	// FullTableImpute computes imputation medians over the whole cleaned
	// table before splitting. Off by default: medians come from the
	// training split only.
	FullTableImpute bool

	// ZeroFill makes PredictOne default unspecified features to zero
	// instead of the training medians.
	ZeroFill bool

	// NewHouse is the sparse feature map priced by the reference run.
	NewHouse map[string]float64

	Forest ForestConfig
	BoostA BoostConfig
	BoostB BoostConfig
}

// DefaultConfig mirrors the reference run: 80/20 split, seed 42, a 500-tree
// forest at depth 20 and two 500-round boosters at rate 0.05, depth 10.
func DefaultConfig() Config {
	return Config{
		DataPath: "data/sales.xlsx",
		Target:   "sale_price",
		NumericColumns: []string{
			"sale_price",
			"above_grade_sqft",
			"finished_bsmt_sqft",
			"unfinished_bsmt_sqft",
			"total_bsmt_sqft",
			"land_sqft",
			"reception_num",
		},
		DerivedColumns: []string{
			"price_per_sqft",
			"total_finished_sqft",
		},
		CategoricalColumns: []string{
			"prop_type",
			"design",
			"quality",
			"location",
		},
		TestFraction: 0.2,
		Seed:         42,
		NewHouse: map[string]float64{
			"above_grade_sqft":   1800,
			"finished_bsmt_sqft": 800,
			"land_sqft":          7500,
			"sale_year":          2024,
			"sale_month":         6,
		},
		Forest: ForestConfig{NEstimators: 500, MaxDepth: 20},
		BoostA: BoostConfig{NEstimators: 500, LearningRate: 0.05, MaxDepth: 10},
		BoostB: BoostConfig{NEstimators: 500, LearningRate: 0.05, MaxDepth: 10},
	}
}
