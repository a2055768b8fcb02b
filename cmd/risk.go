package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/outwriter"
)

// riskCmd groups the employee attrition risk commands.
var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Score, forecast and mitigate employee attrition risk",
	Long: `Assess the attrition risk of one employee from nine weighted factors:
tenure, performance, salary, promotion, workload, satisfaction, manager,
engagement and training.

Subcommands:
  score     - 0-100 risk score with its factor breakdown
  trend     - monthly forecast of the stored risk scores
  recommend - ranked retention actions for the riskiest factors

Use 'insight metrics' to see the factor weights.`,
}

// riskScoreCmd prints the risk assessment of an employee.
var riskScoreCmd = &cobra.Command{
	Use:   "score <employee-id>",
	Short: "Compute the attrition risk score of an employee",
	Long: `Compute the 0-100 attrition risk score of an employee and its factor breakdown.

When the employee cannot be assessed a neutral score of 50 is shown.

Examples:
  insight risk score E1024
  insight risk score E1024 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		assessment := services.CalculateRiskScore(rootCtx, args[0])
		if err := outwriter.NewOutWriter().WriteRiskAssessment(assessment, cfg); err != nil {
			contract.LogFatal("Error writing risk assessment", err)
		}
	},
}

// riskTrendCmd forecasts the risk score of an employee.
var riskTrendCmd = &cobra.Command{
	Use:   "trend <employee-id>",
	Short: "Forecast the monthly risk score of an employee",
	Long: `Forecast the risk score of an employee for the coming months from the
stored risk_scores history. With fewer than three stored scores the latest
score is projected flat.

Examples:
  insight risk trend E1024
  insight risk trend E1024 --months 12 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		months, _ := cmd.Flags().GetInt("months")
		prediction, err := services.PredictRiskTrend(rootCtx, args[0], months)
		if err != nil {
			contract.LogFatal("Cannot forecast risk trend", err)
		}
		if err := outwriter.NewOutWriter().WriteRiskTrend(args[0], prediction, cfg); err != nil {
			contract.LogFatal("Error writing risk trend", err)
		}
	},
}

// riskRecommendCmd lists retention actions for an employee.
var riskRecommendCmd = &cobra.Command{
	Use:   "recommend <employee-id>",
	Short: "List ranked retention actions for an employee",
	Long: `List retention actions for every risk factor scoring 60 or more, ranked by
priority, impact and effort. Generic actions are listed when no factor stands out.

Examples:
  insight risk recommend E1024`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		recs := services.GenerateRetentionRecommendations(rootCtx, args[0])
		if err := outwriter.NewOutWriter().WriteRecommendations(recs, cfg); err != nil {
			contract.LogFatal("Error writing recommendations", err)
		}
	},
}
