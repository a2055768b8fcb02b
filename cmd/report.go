package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/outwriter"
	"github.com/huangsam/insight/schema"
)

// reportCmd generates a multi-section report.
var reportCmd = &cobra.Command{
	Use:   "report <type>",
	Short: "Generate a workforce, performance, retention, recruitment, compensation or learning report.",
	Long: `Generate a report made of fixed sections, each backed by one analysis.

Every report has an executive summary, a reporting period and its
type-specific sections. Sections are computed concurrently; a section whose
analysis fails is reported with an error message instead of failing the report.

Parameters given with --param are forwarded to every section analysis.

Examples:
  # Workforce overview
  insight report workforce

  # Retention report for one department, written to a file
  insight report retention -p department=sales --output-file retention.txt

  # Machine-readable compensation report
  insight report compensation --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		pairs, _ := cmd.Flags().GetStringArray("param")
		params, err := parseParams(pairs)
		if err != nil {
			contract.LogFatal("Invalid report parameters", err)
		}
		start := time.Now()
		report, err := services.GenerateReport(rootCtx, schema.ReportType(strings.ToLower(args[0])), params)
		if err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
		if err := outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Error writing report output", err)
		}
	},
}
