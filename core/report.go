package core

import (
	"context"
	"fmt"
	"maps"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// defaultReportMonths is the trailing window every report covers.
const defaultReportMonths = 3

// ReportGenerator assembles several analyses into a named multi-section report.
type ReportGenerator struct {
	analyzer contract.Analyzer
	now      func() time.Time
}

// NewReportGenerator creates a generator running its sections through analyzer.
func NewReportGenerator(analyzer contract.Analyzer) *ReportGenerator {
	return &ReportGenerator{analyzer: analyzer, now: time.Now}
}

// SectionTitles returns the fixed section titles of a report type, in presentation order.
func SectionTitles(reportType schema.ReportType) ([]string, error) {
	entry, ok := reportCatalogue[reportType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnsupportedReportType, reportType)
	}
	titles := make([]string, len(entry.sections))
	for i, s := range entry.sections {
		titles[i] = s.title
	}
	return titles, nil
}

// GenerateReport runs every section analysis of the report type and packages the results.
// Section analyses run concurrently; the first failure cancels the rest and aborts the report.
// The months parameter widens the trailing window; department narrows the sections
// reading department-level tables.
func (g *ReportGenerator) GenerateReport(ctx context.Context, reportType schema.ReportType, params schema.Params) (schema.Report, error) {
	entry, ok := reportCatalogue[reportType]
	if !ok {
		return schema.Report{}, fmt.Errorf("%w: %q", schema.ErrUnsupportedReportType, reportType)
	}

	months := params.GetInt("months", defaultReportMonths)
	if months < 1 {
		months = defaultReportMonths
	}
	generatedAt := g.now()
	window := schema.TimeRange{Start: generatedAt.AddDate(0, -months, 0), End: generatedAt}
	department := params.GetString(paramDepartment, "")

	results := make([]schema.AnalysisResult, len(entry.sections))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, section := range entry.sections {
		req := section.request(window, department)
		eg.Go(func() error {
			res, err := g.analyzer.Analyze(egCtx, req)
			if err != nil {
				return fmt.Errorf("%s report section %q: %w", reportType, section.title, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return schema.Report{}, err
	}

	report := schema.Report{
		Type:        reportType,
		Title:       entry.title,
		Summary:     entry.summary,
		Sections:    make([]schema.ReportSection, len(entry.sections)),
		GeneratedAt: generatedAt,
		Metadata: schema.ReportMetadata{
			TimeRange: window,
			Version:   schema.EngineVersion,
		},
	}
	for i, section := range entry.sections {
		res := results[i]
		report.Sections[i] = schema.ReportSection{
			Title:             section.title,
			Content:           section.content,
			VisualizationType: section.visualization,
			VisualizationData: res.Data,
			Insights:          res.Insights,
			Recommendations:   recommendationTitles(res.Data),
		}
		report.Metadata.DataPoints += res.Metadata.DataPoints
	}
	return report, nil
}

// request builds the analysis request of a section over the report window.
func (s sectionSpec) request(window schema.TimeRange, department string) schema.AnalysisRequest {
	params := maps.Clone(s.params)
	if params == nil {
		params = schema.Params{}
	}
	if department != "" && s.byDepartment {
		params[paramDepartment] = department
	}
	req := schema.AnalysisRequest{
		Type:       s.analysis,
		DataSource: s.dataSource,
		Parameters: params,
	}
	if !s.snapshot {
		tr := window
		req.TimeRange = &tr
	}
	return req
}

func recommendationTitles(data schema.AnalysisData) []string {
	recData, ok := data.(schema.RecommendationData)
	if !ok {
		return nil
	}
	titles := make([]string, len(recData.Recommendations))
	for i, r := range recData.Recommendations {
		titles[i] = r.Title
	}
	return titles
}
