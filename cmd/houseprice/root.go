package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "houseprice",
	Short: "Residential sale-price prediction from historical sales data",
	Long: "Trains a random forest and two gradient boosting machines on a " +
		"housing spreadsheet, evaluates their averaged predictions on a " +
		"held-out split, and prices a configured sample house.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Training is the default action.
		return trainCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "path to the sales spreadsheet (.xlsx or .csv)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed for the split and model sampling")
	rootCmd.PersistentFlags().Float64Var(&flagTestFraction, "test-fraction", 0, "held-out fraction of rows")
	rootCmd.PersistentFlags().BoolVar(&flagFullImpute, "full-impute", false, "compute imputation medians over the whole table before splitting")
	rootCmd.PersistentFlags().StringVar(&flagPlot, "plot", "", "write a feature-importance chart to this path")
	rootCmd.PersistentFlags().StringVar(&flagEncoderDir, "encoders-dir", "", "write fitted category encoders as JSON to this directory")

	rootCmd.AddCommand(trainCmd)
}
