// Package nlq answers natural-language questions by mapping them onto analysis requests.
package nlq

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// Processor turns free text into an analysis and an answer.
// It holds no mutable state and is safe for concurrent use.
type Processor struct {
	analyzer contract.Analyzer
	now      func() time.Time
}

// NewProcessor creates a processor running its analyses through analyzer.
func NewProcessor(analyzer contract.Analyzer) *Processor {
	return &Processor{analyzer: analyzer, now: time.Now}
}

// ProcessQuery classifies text, extracts entities, runs the matching analysis and
// synthesizes an answer. It never fails: when no analysis can be run or the analysis
// errors, an intent-specific request for more information is returned.
func (p *Processor) ProcessQuery(ctx context.Context, text string) schema.QueryResult {
	intent := ClassifyIntent(text)
	entities := ExtractEntities(text)
	result := schema.QueryResult{Intent: intent, Entities: entities}

	if req := p.BuildRequest(intent, entities); req != nil && p.analyzer != nil {
		res, err := p.analyzer.Analyze(ctx, *req)
		if err != nil {
			contract.LogWarn("Query analysis failed", err)
		} else {
			result.Data = &res
		}
	}

	if result.Data == nil {
		fb, ok := fallbacks[intent]
		if !ok {
			fb = generalFallback
		}
		result.Answer = fb.answer
		result.FollowupQuestions = slices.Clone(fb.followups)
		return result
	}

	result.Answer = strings.Join(result.Data.Insights, " ")
	if result.Answer == "" {
		result.Answer = "The analysis completed but produced no insights."
	}
	result.VisualizationType = visualizations[result.Data.Type]
	result.FollowupQuestions = slices.Clone(followups[result.Data.Type])
	return result
}

// ClassifyIntent returns the first intent bucket with a keyword in text, or unknown.
func ClassifyIntent(text string) schema.Intent {
	lower := strings.ToLower(text)
	for _, bucket := range intentBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.intent
			}
		}
	}
	return schema.UnknownIntent
}

// ExtractEntities returns every department, metric and time-range phrase in text,
// in that order. Matches are independent and repeated values are reported once.
func ExtractEntities(text string) []schema.QueryEntity {
	entities := []schema.QueryEntity{}
	seen := map[schema.QueryEntity]bool{}
	add := func(e schema.QueryEntity) {
		if !seen[e] {
			seen[e] = true
			entities = append(entities, e)
		}
	}

	for _, d := range departments {
		if containsTerm(text, d) {
			add(schema.QueryEntity{Type: schema.DepartmentEntity, Value: d, Confidence: departmentConfidence})
		}
	}
	for _, m := range metrics {
		for _, term := range append([]string{m.name}, m.aliases...) {
			if containsTerm(text, term) {
				add(schema.QueryEntity{Type: schema.MetricEntity, Value: m.name, Confidence: metricConfidence})
				break
			}
		}
	}
	for _, tp := range timePatterns {
		for _, match := range tp.re.FindAllString(text, -1) {
			add(schema.QueryEntity{Type: schema.TimeRangeEntity, Value: strings.TrimSpace(match), Confidence: timeRangeConfidence})
		}
	}
	return entities
}

// BuildRequest maps an intent and its entities onto an analysis request.
// Status and unknown intents build no request.
func (p *Processor) BuildRequest(intent schema.Intent, entities []schema.QueryEntity) *schema.AnalysisRequest {
	var req schema.AnalysisRequest
	switch intent {
	case schema.TrendIntent:
		req = schema.AnalysisRequest{Type: schema.TrendAnalysis, DataSource: "turnover", Parameters: schema.Params{"valueField": "rate"}}
	case schema.ComparisonIntent:
		req = schema.AnalysisRequest{Type: schema.SegmentationAnalysis, DataSource: "employees", Parameters: schema.Params{"segmentBy": "department", "metrics": []string{"salary"}}}
	case schema.PredictionIntent:
		req = schema.AnalysisRequest{Type: schema.PredictionAnalysis, DataSource: "headcount", Parameters: schema.Params{"valueField": "count", "periods": 3}}
	case schema.RecommendationIntent:
		req = schema.AnalysisRequest{Type: schema.RecommendationAnalysis, Parameters: schema.Params{"scenario": "retention"}}
	case schema.AnomalyIntent:
		req = schema.AnalysisRequest{Type: schema.AnomalyAnalysis, DataSource: "turnover", Parameters: schema.Params{"valueField": "rate", "threshold": 2.0}}
	default:
		return nil
	}

	for _, e := range entities {
		switch e.Type {
		case schema.DepartmentEntity:
			if _, set := req.Parameters["department"]; !set {
				req.Parameters["department"] = e.Value
			}
		case schema.MetricEntity:
			if m, ok := metricByName(e.Value); ok {
				applyMetric(&req, m)
			}
		case schema.TimeRangeEntity:
			p.applyTimeRange(&req, e.Value)
		}
	}
	return &req
}

// applyMetric points the request at the metric's table. Only the first metric is applied.
func applyMetric(req *schema.AnalysisRequest, m metricSpec) {
	if _, applied := req.Parameters["metric"]; applied {
		return
	}
	req.Parameters["metric"] = m.name
	switch req.Type {
	case schema.RecommendationAnalysis:
		if m.scenario != "" {
			req.Parameters["scenario"] = m.scenario
		}
		return
	case schema.SegmentationAnalysis:
		req.Parameters["metrics"] = []string{m.valueField}
	default:
		req.Parameters["valueField"] = m.valueField
	}
	req.DataSource = m.dataSource
	if m.timeField != "" {
		req.Parameters["timeField"] = m.timeField
	}
}

// applyTimeRange resolves a time phrase. Past, current and previous phrases bound the
// rows analyzed; future and next phrases set the forecast horizon of predictions.
func (p *Processor) applyTimeRange(req *schema.AnalysisRequest, phrase string) {
	span, ok := parseTimePhrase(phrase)
	if !ok {
		return
	}
	if span.kind == futureSpan || span.kind == nextPeriod {
		if req.Type == schema.PredictionAnalysis {
			req.Parameters["periods"] = span.periods()
		}
		return
	}
	if req.TimeRange != nil || req.Type == schema.RecommendationAnalysis {
		return
	}
	tr := span.resolve(p.now())
	req.TimeRange = &tr
}
