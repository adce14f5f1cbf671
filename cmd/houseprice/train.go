package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/houseprice/pipeline"
)

var (
	flagConfig       string
	flagData         string
	flagSeed         int64
	flagTestFraction float64
	flagFullImpute   bool
	flagPlot         string
	flagEncoderDir   string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the three models and report ensemble accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		res, err := pipeline.Train(cfg)
		if err != nil {
			return err
		}

		mae, r2, err := pipeline.EvaluateEnsemble(res)
		if err != nil {
			return err
		}
		fmt.Printf("Ensemble MAE: %s\n", formatCurrency(mae))
		fmt.Printf("Ensemble R²:  %.2f\n", r2)

		price, err := pipeline.PredictOne(res, cfg.NewHouse)
		if err != nil {
			return err
		}
		fmt.Printf("Predicted sale price for the configured house: %s\n", formatCurrency(price))

		imps, err := pipeline.FeatureImportances(res)
		if err != nil {
			return err
		}
		fmt.Println("\nFeature importances:")
		for _, imp := range imps {
			fmt.Printf("  %-24s %.4f\n", imp.Name, imp.Score)
		}

		if flagPlot != "" {
			if err := pipeline.SaveImportancePlot(res, flagPlot); err != nil {
				return err
			}
			fmt.Printf("\nImportance chart written to %s\n", flagPlot)
		}
		if flagEncoderDir != "" {
			if err := res.SaveEncoders(flagEncoderDir); err != nil {
				return err
			}
		}
		return nil
	},
}

// loadConfig layers the YAML config file and environment over the reference
// defaults, then lets explicit flags win.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("HOUSEPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data", cfg.DataPath)
	v.SetDefault("target", cfg.Target)
	v.SetDefault("numeric_columns", cfg.NumericColumns)
	v.SetDefault("derived_columns", cfg.DerivedColumns)
	v.SetDefault("categorical_columns", cfg.CategoricalColumns)
	v.SetDefault("test_fraction", cfg.TestFraction)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("full_table_impute", cfg.FullTableImpute)
	v.SetDefault("zero_fill", cfg.ZeroFill)
	v.SetDefault("forest.n_estimators", cfg.Forest.NEstimators)
	v.SetDefault("forest.max_depth", cfg.Forest.MaxDepth)
	v.SetDefault("boost_a.n_estimators", cfg.BoostA.NEstimators)
	v.SetDefault("boost_a.learning_rate", cfg.BoostA.LearningRate)
	v.SetDefault("boost_a.max_depth", cfg.BoostA.MaxDepth)
	v.SetDefault("boost_b.n_estimators", cfg.BoostB.NEstimators)
	v.SetDefault("boost_b.learning_rate", cfg.BoostB.LearningRate)
	v.SetDefault("boost_b.max_depth", cfg.BoostB.MaxDepth)

	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
		if err := v.ReadInConfig(); err != nil {
			return cfg, errors.Wrapf(err, "read config %s", flagConfig)
		}
	} else {
		v.SetConfigName("houseprice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return cfg, errors.Wrap(err, "read config")
			}
		}
	}

	cfg.DataPath = v.GetString("data")
	cfg.Target = v.GetString("target")
	cfg.NumericColumns = v.GetStringSlice("numeric_columns")
	cfg.DerivedColumns = v.GetStringSlice("derived_columns")
	cfg.CategoricalColumns = v.GetStringSlice("categorical_columns")
	cfg.TestFraction = v.GetFloat64("test_fraction")
	cfg.Seed = v.GetInt64("seed")
	cfg.FullTableImpute = v.GetBool("full_table_impute")
	cfg.ZeroFill = v.GetBool("zero_fill")
	cfg.Forest.NEstimators = v.GetInt("forest.n_estimators")
	cfg.Forest.MaxDepth = v.GetInt("forest.max_depth")
	cfg.BoostA.NEstimators = v.GetInt("boost_a.n_estimators")
	cfg.BoostA.LearningRate = v.GetFloat64("boost_a.learning_rate")
	cfg.BoostA.MaxDepth = v.GetInt("boost_a.max_depth")
	cfg.BoostB.NEstimators = v.GetInt("boost_b.n_estimators")
	cfg.BoostB.LearningRate = v.GetFloat64("boost_b.learning_rate")
	cfg.BoostB.MaxDepth = v.GetInt("boost_b.max_depth")

	if nh := v.GetStringMap("new_house"); len(nh) > 0 {
		house := make(map[string]float64, len(nh))
		for name, raw := range nh {
			f, err := toFloat64(raw)
			if err != nil {
				return cfg, errors.Wrapf(err, "new_house.%s", name)
			}
			house[name] = f
		}
		cfg.NewHouse = house
	}

	// Flags beat both file and environment.
	if cmd.Flags().Changed("data") {
		cfg.DataPath = flagData
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	if cmd.Flags().Changed("test-fraction") {
		cfg.TestFraction = flagTestFraction
	}
	if cmd.Flags().Changed("full-impute") {
		cfg.FullTableImpute = flagFullImpute
	}
	return cfg, nil
}

func toFloat64(raw interface{}) (float64, error) {
	switch x := raw.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, errors.Newf("expected a number, got %T", raw)
	}
}

// formatCurrency renders 1234567.89 as $1,234,567.89.
func formatCurrency(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, sb.String(), cents)
}
