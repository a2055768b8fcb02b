// Package parquet exports insight run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/insight/schema"
)

// AnalysisRun is one tracked run.
// This struct maps to the insight_analysis_runs database table.
type AnalysisRun struct {
	RunID      int64  `parquet:"run_id,snappy"`
	RunKind    string `parquet:"run_kind,snappy,dict"`
	Subject    string `parquet:"subject,snappy,dict"`
	DataSource string `parquet:"data_source,snappy,dict"`

	// StartTime is when the run began (TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil for runs that never finished
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int64   `parquet:"run_duration_ms,optional,snappy"`
	DataPoints    int32    `parquet:"data_points,snappy"`
	Confidence    *float64 `parquet:"confidence,optional,snappy"`

	// Params contains the JSON-encoded request parameters
	Params *string `parquet:"params,optional,snappy"`
}

// RiskAssessment is one recorded attrition-risk score.
// This struct maps to the insight_risk_assessments database table.
type RiskAssessment struct {
	RunID      int64     `parquet:"run_id,snappy"`
	EmployeeID string    `parquet:"employee_id,snappy"`
	AssessedAt time.Time `parquet:"assessed_at,snappy"`
	Score      int32     `parquet:"score,snappy"`
	ScoreLabel string    `parquet:"score_label,snappy,dict"`

	// Factors contains the JSON-encoded factor scores
	Factors string `parquet:"factors,snappy"`
}

// WriteAnalysisRunsParquet writes runs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRiskAssessmentsParquet writes risk assessments to a Parquet file.
func WriteRiskAssessmentsParquet(data []RiskAssessment, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using the schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
// Duration and confidence are null for runs without an end time.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		run := AnalysisRun{
			RunID:      record.RunID,
			RunKind:    string(record.Kind),
			Subject:    record.Subject,
			DataSource: record.DataSource,
			StartTime:  record.StartTime,
			EndTime:    record.EndTime,
			DataPoints: int32(record.DataPoints),
		}
		if record.EndTime != nil {
			duration := record.RunDurationMs
			confidence := record.Confidence
			run.RunDurationMs = &duration
			run.Confidence = &confidence
		}
		if record.Params != "" {
			params := record.Params
			run.Params = &params
		}
		result[i] = run
	}
	return result
}

// ConvertRiskAssessmentRecords converts schema.RiskAssessmentRecord to RiskAssessment for Parquet export.
func ConvertRiskAssessmentRecords(records []schema.RiskAssessmentRecord) []RiskAssessment {
	result := make([]RiskAssessment, len(records))
	for i, record := range records {
		result[i] = RiskAssessment{
			RunID:      record.RunID,
			EmployeeID: record.EmployeeID,
			AssessedAt: record.AssessedAt,
			Score:      int32(record.Score),
			ScoreLabel: record.Label,
			Factors:    record.Factors,
		}
	}
	return result
}
