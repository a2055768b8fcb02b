package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/insight/schema"
)

// MockDataStore is a mock implementation of DataStore for testing.
type MockDataStore struct {
	mock.Mock
}

var _ DataStore = &MockDataStore{}

// Query mocks the Query method.
func (m *MockDataStore) Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]schema.Record)
	return rows, args.Error(1)
}

// Close mocks the Close method.
func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{}

// BeginRun mocks the BeginRun method.
func (m *MockHistoryStore) BeginRun(kind schema.RunKind, subject, dataSource string, startTime time.Time, params map[string]any) (int64, error) {
	args := m.Called(kind, subject, dataSource, startTime, params)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun mocks the EndRun method.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, dataPoints int, confidence float64) error {
	args := m.Called(runID, endTime, dataPoints, confidence)
	return args.Error(0)
}

// RecordRiskAssessment mocks the RecordRiskAssessment method.
func (m *MockHistoryStore) RecordRiskAssessment(runID int64, assessment schema.RiskAssessment, assessedAt time.Time) error {
	args := m.Called(runID, assessment, assessedAt)
	return args.Error(0)
}

// GetStatus mocks the GetStatus method.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns mocks the GetAllRuns method.
func (m *MockHistoryStore) GetAllRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllAssessments mocks the GetAllAssessments method.
func (m *MockHistoryStore) GetAllAssessments() ([]schema.RiskAssessmentRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RiskAssessmentRecord)
	return records, args.Error(1)
}

// Close mocks the Close method.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
