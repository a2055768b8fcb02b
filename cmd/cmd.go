// Package cmd defines the command-line interface for insight.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/insight/core/risk"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the risk subcommands to the parent risk command
	riskCmd.AddCommand(riskScoreCmd)
	riskCmd.AddCommand(riskTrendCmd)
	riskCmd.AddCommand(riskRecommendCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Data backend: sqlite or mysql or postgresql or xlsx")
	rootCmd.PersistentFlags().String("db-connect", "", "Connection string for mysql/postgresql, database file for sqlite or workbook path for xlsx")
	rootCmd.PersistentFlags().String("history-backend", "", "History tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for history tracking (must differ from db-connect)")
	rootCmd.PersistentFlags().String("fetch-timeout", "", "Timeout per data fetch attempt (e.g., 5s); empty means no timeout")
	rootCmd.PersistentFlags().Int("fetch-retries", contract.DefaultFetchRetries, "Retries per failed data fetch with exponential backoff")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command-local flags are read from the command itself since several share names
	addAnalyzeFlags(analyzeCmd)

	reportCmd.Flags().StringArrayP("param", "p", nil, "Report parameter as key=value (repeatable)")

	riskTrendCmd.Flags().Int("months", risk.DefaultForecastMonths, "Number of months to forecast")

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (default any)")
	serveCmd.Flags().Duration("request-timeout", defaultRequestTimeout, "Timeout per API request (0 = none)")

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

// addAnalyzeFlags registers the flags read by analysisRequestFromFlags.
func addAnalyzeFlags(c *cobra.Command) {
	c.Flags().StringP("source", "s", "", "Table to analyze (e.g., turnover, employees)")
	c.Flags().StringArrayP("param", "p", nil, "Analysis parameter as key=value (repeatable)")
	c.Flags().String("start", "", "Start of the time range (YYYY-MM-DD or RFC3339)")
	c.Flags().String("end", "", "End of the time range (defaults to now when --start is set)")
	c.Flags().IntP("limit", "l", 0, "Maximum number of rows to read (0 = all)")
}
