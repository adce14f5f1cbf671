// Command houseprice trains the sale-price ensemble on a housing spreadsheet
// and reports accuracy, the priced sample house, and feature importances.
package main

import (
	"os"

	"github.com/ezoic/houseprice/pkg/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.GetLoggerWithName("houseprice").Error("run failed", "error", err)
		os.Exit(1)
	}
}
