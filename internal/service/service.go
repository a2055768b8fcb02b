// Package service bundles the engine entry points for the CLI, MCP and HTTP surfaces.
package service

import (
	"context"

	"github.com/huangsam/insight/core"
	"github.com/huangsam/insight/core/nlq"
	"github.com/huangsam/insight/core/risk"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/history"
	"github.com/huangsam/insight/schema"
)

// Services bundles every entry point over one data store and records each
// call as a history run.
type Services struct {
	analyzer contract.Analyzer
	reports  *core.ReportGenerator
	queries  *nlq.Processor
	risk     *risk.Service
	tracker  *history.Tracker
}

var _ contract.Analyzer = &Services{}

// NewServices wires the engine, report generator, query processor and risk service
// to ds. A nil history store records nothing.
func NewServices(ds contract.DataStore, hs contract.HistoryStore) *Services {
	tracker := history.NewTracker(hs)
	analyzer := tracker.Analyzer(core.NewEngine(ds))
	return &Services{
		analyzer: analyzer,
		reports:  core.NewReportGenerator(analyzer),
		queries:  nlq.NewProcessor(analyzer),
		risk:     risk.NewService(ds),
		tracker:  tracker,
	}
}

// Analyze runs one analysis.
func (s *Services) Analyze(ctx context.Context, req schema.AnalysisRequest) (schema.AnalysisResult, error) {
	return s.analyzer.Analyze(ctx, req)
}

// GenerateReport builds a report. Each section analysis is recorded as its own run.
func (s *Services) GenerateReport(ctx context.Context, reportType schema.ReportType, params schema.Params) (schema.Report, error) {
	run := s.tracker.Begin(schema.ReportRun, string(reportType), "", params.Clone())
	report, err := s.reports.GenerateReport(ctx, reportType, params)
	if err != nil {
		run.End(0, 0)
		return report, err
	}
	run.End(report.Metadata.DataPoints, 0)
	return report, nil
}

// ProcessQuery answers a natural-language question. It never fails.
func (s *Services) ProcessQuery(ctx context.Context, text string) schema.QueryResult {
	run := s.tracker.Begin(schema.QueryRun, string(nlq.ClassifyIntent(text)), "", map[string]any{"query": text})
	result := s.queries.ProcessQuery(ctx, text)
	if result.Data != nil {
		run.End(result.Data.Metadata.DataPoints, result.Data.Confidence)
	} else {
		run.End(0, 0)
	}
	return result
}

// CalculateRiskScore scores one employee and records the assessment.
// Failures degrade to the neutral assessment, which is not recorded.
func (s *Services) CalculateRiskScore(ctx context.Context, employeeID string) schema.RiskAssessment {
	run := s.tracker.Begin(schema.RiskRun, employeeID, "employees", map[string]any{"operation": "score"})
	assessment, err := s.risk.Assess(ctx, employeeID)
	if err != nil {
		contract.LogWarn("Risk assessment failed for "+employeeID, err)
		run.End(0, 0)
		return risk.NeutralAssessment(employeeID)
	}
	run.RecordAssessment(assessment)
	run.End(1, 1)
	return assessment
}

// PredictRiskTrend forecasts an employee's risk score for the next months.
func (s *Services) PredictRiskTrend(ctx context.Context, employeeID string, months int) (schema.RiskTrendPrediction, error) {
	run := s.tracker.Begin(schema.RiskRun, employeeID, "risk_scores", map[string]any{"operation": "trend", "months": months})
	prediction, err := s.risk.PredictRiskTrend(ctx, employeeID, months)
	if err != nil {
		run.End(0, 0)
		return prediction, err
	}
	run.End(len(prediction.Predictions), prediction.Confidence)
	return prediction, nil
}

// GenerateRetentionRecommendations returns ranked retention actions for an employee.
func (s *Services) GenerateRetentionRecommendations(ctx context.Context, employeeID string) []schema.Recommendation {
	run := s.tracker.Begin(schema.RiskRun, employeeID, "employees", map[string]any{"operation": "recommend"})
	recs := s.risk.GenerateRetentionRecommendations(ctx, employeeID)
	run.End(len(recs), 0)
	return recs
}
