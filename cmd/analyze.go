package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/outwriter"
	"github.com/huangsam/insight/schema"
)

// analyzeCmd runs one analysis against a table.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <type>",
	Short: "Run a trend, anomaly, correlation, prediction, recommendation or segmentation analysis.",
	Long: `Run one analysis over a table of the configured data backend.

Analysis types:
- trend          - linear regression over a time-ordered value field
- anomaly        - z-score outliers (parameter: threshold, default 2)
- correlation    - Pearson correlation between numeric fields
- prediction     - moving-average forecast (parameters: periods, window)
- recommendation - fixed playbook per scenario (retention, performance, recruitment)
- segmentation   - per-group statistics (parameters: segmentBy, metrics)

Parameters are passed as repeatable key=value pairs. Common keys are
valueField, timeField, threshold, periods, segmentBy, metrics and scenario.

Examples:
  # Turnover rate trend over the first half of 2024
  insight analyze trend --source turnover -p valueField=rate --start 2024-01-01 --end 2024-06-30

  # Flag unusual sales weeks
  insight analyze anomaly --source sales -p valueField=amount -p threshold=2.5

  # Compare salary and bonus by department as JSON
  insight analyze segmentation --source employees -p segmentBy=department -p metrics=salary,bonus --output json

  # Retention playbook
  insight analyze recommendation -p scenario=retention`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		req, err := analysisRequestFromFlags(cmd, args[0])
		if err != nil {
			contract.LogFatal("Invalid analysis request", err)
		}
		start := time.Now()
		result, err := services.Analyze(rootCtx, req)
		if err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalysis(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Error writing analysis output", err)
		}
	},
}

// analysisRequestFromFlags builds a request from the analyze flags.
func analysisRequestFromFlags(cmd *cobra.Command, analysisType string) (schema.AnalysisRequest, error) {
	source, _ := cmd.Flags().GetString("source")
	pairs, _ := cmd.Flags().GetStringArray("param")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return schema.AnalysisRequest{}, fmt.Errorf("limit cannot be negative (received %d)", limit)
	}
	params, err := parseParams(pairs)
	if err != nil {
		return schema.AnalysisRequest{}, err
	}
	tr, err := contract.ParseTimeRange(startStr, endStr, time.Now())
	if err != nil {
		return schema.AnalysisRequest{}, err
	}
	return schema.AnalysisRequest{
		Type:       schema.AnalysisType(strings.ToLower(analysisType)),
		DataSource: source,
		Parameters: params,
		TimeRange:  tr,
		Limit:      limit,
	}, nil
}
