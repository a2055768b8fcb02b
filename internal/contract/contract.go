// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/insight/schema"
)

// DataStore is the tabular query capability the engine reads from.
// This allows the analysis logic to be tested without a real database.
type DataStore interface {
	// Query returns all rows of a table that match the filters, optionally ordered and limited.
	// Failures are reported as *schema.DataFetchError.
	Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error)

	// Close releases the underlying connection.
	Close() error
}

// Analyzer runs a single analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req schema.AnalysisRequest) (schema.AnalysisResult, error)
}

// HistoryStore defines the interface for tracking runs and storing risk assessments.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(kind schema.RunKind, subject, dataSource string, startTime time.Time, params map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, dataPoints int, confidence float64) error

	// RecordRiskAssessment stores a computed risk assessment for a run
	RecordRiskAssessment(runID int64, assessment schema.RiskAssessment, assessedAt time.Time) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every recorded run in run order
	GetAllRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllAssessments retrieves every recorded risk assessment in run order
	GetAllAssessments() ([]schema.RiskAssessmentRecord, error)

	// Close closes the underlying connection
	Close() error
}
