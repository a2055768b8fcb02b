package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/schema"
)

// recordingAnalyzer captures requests and answers with an empty result of the requested type.
type recordingAnalyzer struct {
	mu       sync.Mutex
	requests []schema.AnalysisRequest
	failOn   string
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, req schema.AnalysisRequest) (schema.AnalysisResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.failOn != "" && req.DataSource == r.failOn {
		return schema.AnalysisResult{}, schema.NewDataFetchError(req.DataSource, errors.New("boom"))
	}
	if err := ctx.Err(); err != nil {
		return schema.AnalysisResult{}, err
	}
	res := schema.AnalysisResult{Type: req.Type, Insights: []string{string(req.Type)}, Metadata: schema.ResultMetadata{DataPoints: 2}}
	if req.Type == schema.RecommendationAnalysis {
		out := analyzeRecommendation(nil, req.Parameters)
		res.Data = out.data
	}
	return res, nil
}

var reportNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestGenerator(a *recordingAnalyzer) *ReportGenerator {
	g := NewReportGenerator(a)
	g.now = func() time.Time { return reportNow }
	return g
}

func TestEveryReportTypeHasSections(t *testing.T) {
	for _, rt := range schema.AllReportTypes {
		titles, err := SectionTitles(rt)
		require.NoError(t, err, rt)
		assert.GreaterOrEqual(t, len(titles), 4, rt)
		for _, s := range reportCatalogue[rt].sections {
			assert.True(t, s.analysis.IsValid(), "%s: %s", rt, s.title)
			assert.NotEmpty(t, s.visualization)
		}
	}
}

func TestGenerateReportSectionOrder(t *testing.T) {
	for _, rt := range schema.AllReportTypes {
		t.Run(string(rt), func(t *testing.T) {
			a := &recordingAnalyzer{}
			report, err := newTestGenerator(a).GenerateReport(context.Background(), rt, nil)
			require.NoError(t, err)

			titles, _ := SectionTitles(rt)
			require.Len(t, report.Sections, len(titles))
			for i, s := range report.Sections {
				assert.Equal(t, titles[i], s.Title)
				assert.Equal(t, []string{string(reportCatalogue[rt].sections[i].analysis)}, s.Insights)
			}
			assert.Equal(t, rt, report.Type)
			assert.Equal(t, reportNow, report.GeneratedAt)
			assert.Equal(t, 2*len(titles), report.Metadata.DataPoints)
			assert.Equal(t, schema.EngineVersion, report.Metadata.Version)
			assert.Len(t, a.requests, len(titles))
		})
	}
}

func TestGenerateReportWindowAndDepartment(t *testing.T) {
	a := &recordingAnalyzer{}
	report, err := newTestGenerator(a).GenerateReport(context.Background(), schema.WorkforceReport,
		schema.Params{"months": 6, "department": "sales"})
	require.NoError(t, err)

	wantStart := time.Date(2023, 12, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, report.Metadata.TimeRange.Start)
	assert.Equal(t, reportNow, report.Metadata.TimeRange.End)

	for _, req := range a.requests {
		switch req.DataSource {
		case "employees", "turnover":
			assert.Equal(t, "sales", req.Parameters.GetString("department", ""), req.DataSource)
		default:
			_, scoped := req.Parameters["department"]
			assert.False(t, scoped, "%s has no department column", req.DataSource)
		}
		if req.DataSource == "employees" {
			assert.Nil(t, req.TimeRange, "composition is a snapshot")
			continue
		}
		require.NotNil(t, req.TimeRange, req.DataSource)
		assert.Equal(t, wantStart, req.TimeRange.Start)
	}
	// the catalogue itself is never mutated
	for _, s := range reportCatalogue[schema.WorkforceReport].sections {
		_, ok := s.params["department"]
		assert.False(t, ok)
	}
}

func TestGenerateReportRecommendations(t *testing.T) {
	report, err := newTestGenerator(&recordingAnalyzer{}).GenerateReport(context.Background(), schema.RetentionReport, nil)
	require.NoError(t, err)

	last := report.Sections[len(report.Sections)-1]
	assert.Equal(t, VizCardList, last.VisualizationType)
	require.NotEmpty(t, last.Recommendations)
	assert.Equal(t, "Publish clear career paths", last.Recommendations[0])
	assert.Nil(t, report.Sections[0].Recommendations)
}

func TestGenerateReportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		_, err := newTestGenerator(&recordingAnalyzer{}).GenerateReport(ctx, "quarterly", nil)
		assert.ErrorIs(t, err, schema.ErrUnsupportedReportType)
		_, err = SectionTitles("quarterly")
		assert.ErrorIs(t, err, schema.ErrUnsupportedReportType)
	})

	t.Run("section failure aborts report", func(t *testing.T) {
		report, err := newTestGenerator(&recordingAnalyzer{failOn: "turnover"}).GenerateReport(ctx, schema.WorkforceReport, nil)
		assert.ErrorIs(t, err, schema.ErrDataFetch)
		assert.Contains(t, err.Error(), "workforce report section")
		assert.Empty(t, report.Sections)
	})

	t.Run("missing tables through the engine", func(t *testing.T) {
		g := NewReportGenerator(newTestEngine(nil))
		_, err := g.GenerateReport(ctx, schema.LearningReport, nil)
		assert.ErrorIs(t, err, schema.ErrDataFetch)
	})
}

func TestGenerateReportThroughEngine(t *testing.T) {
	day := func(d int) string { return reportNow.AddDate(0, 0, -d).Format("2006-01-02") }
	tables := map[string][]schema.Record{
		"training_records": {
			{"department": "sales", "hours": 10.0, "score": 70.0, "completion_date": day(40)},
			{"department": "sales", "hours": 20.0, "score": 80.0, "completion_date": day(30)},
			{"department": "tech", "hours": 30.0, "score": 90.0, "completion_date": day(20)},
			{"department": "tech", "hours": 40.0, "score": 95.0, "completion_date": day(10)},
			{"department": "tech", "hours": 50.0, "score": 99.0, "completion_date": day(200)},
		},
	}
	g := NewReportGenerator(newTestEngine(tables))
	g.now = func() time.Time { return reportNow }

	report, err := g.GenerateReport(context.Background(), schema.LearningReport, nil)
	require.NoError(t, err)
	require.Len(t, report.Sections, 4)

	// the row from 200 days ago falls outside the default window
	assert.Equal(t, 16, report.Metadata.DataPoints)
	trend, ok := report.Sections[1].VisualizationData.(schema.TrendData)
	require.True(t, ok)
	assert.Equal(t, schema.IncreasingTrend, trend.Direction)
	assert.InDelta(t, 10.0, trend.Slope, 1e-9)
}

func TestGenerateReportDepartmentSkipsOrganisationTables(t *testing.T) {
	day := func(d int) string { return reportNow.AddDate(0, 0, -d).Format("2006-01-02") }
	tables := map[string][]schema.Record{
		"employees": {
			{"employee_id": "E1", "department": "sales", "salary": 5000.0},
			{"employee_id": "E2", "department": "tech", "salary": 9000.0},
		},
		"turnover": {
			{"department": "sales", "rate": 4.0, "created_at": day(60)},
			{"department": "sales", "rate": 5.0, "created_at": day(30)},
			{"department": "tech", "rate": 9.0, "created_at": day(30)},
		},
		"headcount": {
			{"count": 100.0, "created_at": day(80)},
			{"count": 110.0, "created_at": day(50)},
			{"count": 120.0, "created_at": day(20)},
		},
	}
	g := NewReportGenerator(newTestEngine(tables))
	g.now = func() time.Time { return reportNow }

	report, err := g.GenerateReport(context.Background(), schema.WorkforceReport, schema.Params{"department": "sales"})
	require.NoError(t, err)

	trend, ok := report.Sections[1].VisualizationData.(schema.TrendData)
	require.True(t, ok)
	assert.Equal(t, []float64{100, 110, 120}, trend.Values)

	anomalies, ok := report.Sections[2].VisualizationData.(schema.AnomalyData)
	require.True(t, ok)
	assert.InDelta(t, 4.5, anomalies.Mean, 1e-9, "only sales turnover is read")
}
