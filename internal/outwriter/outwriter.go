// Package outwriter renders analysis results, reports, answers and risk output
// as text tables, JSON or CSV.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// OutWriter provides a unified interface for all output operations.
// Every method writes to cfg.OutputFile, or stdout when it is empty.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints an analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(cfg, func(w io.Writer) error { return WriteAnalysisResult(w, result, cfg, duration) })
}

// WriteReport prints a report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.Report, cfg *contract.Config, duration time.Duration) error {
	return emit(cfg, func(w io.Writer) error { return WriteReport(w, report, cfg, duration) })
}

// WriteQuery prints a query answer using the configured output format.
func (ow *OutWriter) WriteQuery(result schema.QueryResult, cfg *contract.Config) error {
	return emit(cfg, func(w io.Writer) error { return WriteQueryResult(w, result, cfg) })
}

// WriteRiskAssessment prints a risk assessment using the configured output format.
func (ow *OutWriter) WriteRiskAssessment(assessment schema.RiskAssessment, cfg *contract.Config) error {
	return emit(cfg, func(w io.Writer) error { return WriteRiskAssessment(w, assessment, cfg) })
}

// WriteRiskTrend prints a risk trend forecast using the configured output format.
func (ow *OutWriter) WriteRiskTrend(employeeID string, prediction schema.RiskTrendPrediction, cfg *contract.Config) error {
	return emit(cfg, func(w io.Writer) error { return WriteRiskTrend(w, employeeID, prediction, cfg) })
}

// WriteRecommendations prints ranked recommendations using the configured output format.
func (ow *OutWriter) WriteRecommendations(recs []schema.Recommendation, cfg *contract.Config) error {
	return emit(cfg, func(w io.Writer) error { return WriteRecommendations(w, recs, cfg) })
}

// WriteMetrics prints the risk model definition using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return emit(cfg, func(w io.Writer) error { return WriteMetricsDefinitions(w, cfg) })
}

// emit sends one rendering to the configured destination.
func emit(cfg *contract.Config, render func(io.Writer) error) error {
	return writeWithFile(cfg.OutputFile, render, "Wrote "+string(outputMode(cfg)))
}

// outputMode returns the configured mode, defaulting to text.
func outputMode(cfg *contract.Config) schema.OutputMode {
	if cfg.Output == "" {
		return schema.TextOut
	}
	return cfg.Output
}
