// Package core has the analysis engine and the report generator.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// Request parameters shared by several strategies.
const (
	paramValueField = "valueField"
	paramTimeField  = "timeField"
	paramDepartment = "department"

	defaultValueField = "value"
	defaultTimeField  = "created_at"
)

// outcome is what a strategy computes from the fetched rows.
type outcome struct {
	data       schema.AnalysisData
	insights   []string
	confidence float64
}

// strategy is the handler of one analysis type.
type strategy struct {
	algorithm string
	// ordered strategies fetch rows sorted by the time field
	ordered bool
	// optional strategies skip the fetch when no data source is named
	optional bool
	compute  func(rows []schema.Record, params schema.Params) outcome
}

// strategies is the registry of every analysis type the engine supports.
var strategies = map[schema.AnalysisType]strategy{
	schema.TrendAnalysis:          {algorithm: "linear-regression", ordered: true, compute: analyzeTrend},
	schema.AnomalyAnalysis:        {algorithm: "z-score", ordered: true, compute: analyzeAnomaly},
	schema.CorrelationAnalysis:    {algorithm: "pearson-correlation", compute: analyzeCorrelation},
	schema.PredictionAnalysis:     {algorithm: "moving-average-regression", ordered: true, compute: analyzePrediction},
	schema.RecommendationAnalysis: {algorithm: "scenario-rules", optional: true, compute: analyzeRecommendation},
	schema.SegmentationAnalysis:   {algorithm: "group-by-aggregate", compute: analyzeSegmentation},
}

// Engine runs analysis requests against a tabular data store.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	store contract.DataStore
	now   func() time.Time
}

var _ contract.Analyzer = &Engine{}

// NewEngine creates an engine reading from store.
func NewEngine(store contract.DataStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// SupportedTypes returns the analysis types registered with the engine.
func SupportedTypes() []schema.AnalysisType {
	out := make([]schema.AnalysisType, 0, len(strategies))
	for _, t := range schema.AllAnalysisTypes {
		if _, ok := strategies[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Analyze runs one analysis. It fails with schema.ErrUnsupportedAnalysisType for
// unknown types and with a *schema.DataFetchError when the store cannot be queried.
func (e *Engine) Analyze(ctx context.Context, req schema.AnalysisRequest) (schema.AnalysisResult, error) {
	start := time.Now()
	s, ok := strategies[req.Type]
	if !ok {
		return schema.AnalysisResult{}, fmt.Errorf("%w: %q", schema.ErrUnsupportedAnalysisType, req.Type)
	}

	var rows []schema.Record
	if !s.optional || req.DataSource != "" {
		var err error
		rows, err = e.fetch(ctx, req, s.ordered)
		if err != nil {
			return schema.AnalysisResult{}, err
		}
	}

	out := s.compute(rows, req.Parameters)
	insights := out.insights
	if insights == nil {
		insights = []string{}
	}
	return schema.AnalysisResult{
		Type:       req.Type,
		Timestamp:  e.now(),
		Data:       out.data,
		Insights:   insights,
		Confidence: schema.Clamp01(out.confidence),
		Metadata: schema.ResultMetadata{
			DataPoints:    len(rows),
			Algorithm:     s.algorithm,
			ExecutionTime: time.Since(start),
			Version:       schema.EngineVersion,
		},
	}, nil
}

// fetch performs the single store query of an analysis.
func (e *Engine) fetch(ctx context.Context, req schema.AnalysisRequest, ordered bool) ([]schema.Record, error) {
	if req.DataSource == "" {
		return nil, schema.NewDataFetchError(req.DataSource, errors.New("no data source named in request"))
	}
	if e.store == nil {
		return nil, schema.NewDataFetchError(req.DataSource, errors.New("no data store configured"))
	}
	q := BuildTableQuery(req)
	if !ordered {
		q.OrderBy = ""
	}
	rows, err := e.store.Query(ctx, q)
	if err != nil {
		var fetchErr *schema.DataFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, schema.NewDataFetchError(req.DataSource, err)
	}
	return rows, nil
}

// BuildTableQuery translates an analysis request into a store query.
// The department parameter becomes an equality filter and the time range
// becomes bounds on the time field.
func BuildTableQuery(req schema.AnalysisRequest) schema.TableQuery {
	timeField := req.Parameters.GetString(paramTimeField, defaultTimeField)
	filters := make([]schema.Filter, 0, len(req.Filters)+3)
	filters = append(filters, req.Filters...)

	if dept := req.Parameters.GetString(paramDepartment, ""); dept != "" && !hasFilter(filters, paramDepartment) {
		filters = append(filters, schema.Eq(paramDepartment, dept))
	}
	if tr := req.TimeRange; tr != nil {
		if !tr.Start.IsZero() {
			filters = append(filters, schema.Filter{Field: timeField, Op: schema.OpGte, Value: tr.Start})
		}
		if !tr.End.IsZero() {
			filters = append(filters, schema.Filter{Field: timeField, Op: schema.OpLte, Value: tr.End})
		}
	}

	return schema.TableQuery{
		Table:   req.DataSource,
		OrderBy: timeField,
		Filters: filters,
		Limit:   req.Limit,
	}
}

func hasFilter(filters []schema.Filter, field string) bool {
	for _, f := range filters {
		if f.Field == field {
			return true
		}
	}
	return false
}

// numericSeries extracts the numeric values of field, skipping rows without one.
// The returned indexes point back into rows.
func numericSeries(rows []schema.Record, field string) ([]float64, []int) {
	values := make([]float64, 0, len(rows))
	indexes := make([]int, 0, len(rows))
	for i, r := range rows {
		if v, ok := r.Float(field); ok {
			values = append(values, v)
			indexes = append(indexes, i)
		}
	}
	return values, indexes
}
