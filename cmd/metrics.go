package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/outwriter"
)

// metricsCmd displays the definition of the attrition risk model.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the factor weights and formula of the attrition risk score",
	Long: `Show the formal definition of the attrition risk score, including:
- Every risk factor and its contribution weight
- The weighted-sum formula
- The score bands used for labels (Low, Moderate, High, Critical)

No data is read - this is purely informational.

Examples:
  # Show the risk model
  insight metrics

  # Export the definition for documentation
  insight metrics --output json --output-file risk-model.json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteMetrics(cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
