package core

import "github.com/huangsam/insight/schema"

// Visualization hints consumed by the presentation layer.
const (
	VizBarGrouped = "bar-grouped"
	VizLine       = "line"
	VizLineMulti  = "line-multi"
	VizScatter    = "scatter"
	VizCardList   = "card-list"
)

// sectionSpec declares one report section and the analysis behind it.
type sectionSpec struct {
	title         string
	content       string
	visualization string
	analysis      schema.AnalysisType
	dataSource    string
	params        schema.Params
	// snapshot sections describe current state and ignore the trailing window
	snapshot bool
	// byDepartment sections read a table with a department column
	byDepartment bool
}

// reportSpec declares a report type.
type reportSpec struct {
	title    string
	summary  string
	sections []sectionSpec
}

// reportCatalogue holds the fixed section list of every report type.
var reportCatalogue = map[schema.ReportType]reportSpec{
	schema.WorkforceReport: {
		title:   "Workforce Analysis Report",
		summary: "An overview of headcount, workforce composition and turnover over the reporting window, with a headcount forecast and retention actions.",
		sections: []sectionSpec{
			{
				title:         "Workforce Composition",
				content:       "Headcount and average salary by department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "employees",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"salary"}},
				byDepartment:  true,
				snapshot:      true,
			},
			{
				title:         "Headcount Trend",
				content:       "How total headcount has moved period over period.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "headcount",
				params:        schema.Params{paramValueField: "count"},
			},
			{
				title:         "Turnover Anomalies",
				content:       "Periods where turnover departed sharply from normal.",
				visualization: VizScatter,
				analysis:      schema.AnomalyAnalysis,
				dataSource:    "turnover",
				params:        schema.Params{paramValueField: "rate"},
				byDepartment:  true,
			},
			{
				title:         "Headcount Forecast",
				content:       "Projected headcount for the coming periods.",
				visualization: VizLineMulti,
				analysis:      schema.PredictionAnalysis,
				dataSource:    "headcount",
				params:        schema.Params{paramValueField: "count", "nonNegative": true},
			},
			{
				title:         "Retention Actions",
				content:       "Recommended actions to keep key people.",
				visualization: VizCardList,
				analysis:      schema.RecommendationAnalysis,
				params:        schema.Params{"scenario": RetentionScenario},
			},
		},
	},
	schema.PerformanceReport: {
		title:   "Performance Analysis Report",
		summary: "A review of performance ratings across departments, how they are changing, how training relates to them, and where ratings are heading.",
		sections: []sectionSpec{
			{
				title:         "Ratings by Department",
				content:       "Average review rating per department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "performance_reviews",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"rating"}, paramTimeField: "review_date"},
				byDepartment:  true,
			},
			{
				title:         "Rating Trend",
				content:       "Direction of review ratings over the window.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "performance_reviews",
				params:        schema.Params{paramValueField: "rating", paramTimeField: "review_date"},
				byDepartment:  true,
			},
			{
				title:         "Training and Performance",
				content:       "Relationship between training hours and review rating.",
				visualization: VizScatter,
				analysis:      schema.CorrelationAnalysis,
				dataSource:    "performance_reviews",
				params:        schema.Params{"xField": "training_hours", "yField": "rating", paramTimeField: "review_date"},
				byDepartment:  true,
			},
			{
				title:         "Rating Forecast",
				content:       "Expected review ratings for the coming periods.",
				visualization: VizLineMulti,
				analysis:      schema.PredictionAnalysis,
				dataSource:    "performance_reviews",
				params:        schema.Params{paramValueField: "rating", paramTimeField: "review_date"},
				byDepartment:  true,
			},
			{
				title:         "Performance Actions",
				content:       "Recommended actions to lift performance.",
				visualization: VizCardList,
				analysis:      schema.RecommendationAnalysis,
				params:        schema.Params{"scenario": PerformanceScenario},
			},
		},
	},
	schema.RetentionReport: {
		title:   "Retention Analysis Report",
		summary: "A look at turnover by department, its direction and unusual spikes, the expected turnover rate, and the actions most likely to reduce it.",
		sections: []sectionSpec{
			{
				title:         "Turnover by Department",
				content:       "Average turnover rate per department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "turnover",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"rate"}},
				byDepartment:  true,
			},
			{
				title:         "Turnover Trend",
				content:       "Direction of the turnover rate over the window.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "turnover",
				params:        schema.Params{paramValueField: "rate"},
				byDepartment:  true,
			},
			{
				title:         "Turnover Spikes",
				content:       "Periods with unusually high or low turnover.",
				visualization: VizScatter,
				analysis:      schema.AnomalyAnalysis,
				dataSource:    "turnover",
				params:        schema.Params{paramValueField: "rate"},
				byDepartment:  true,
			},
			{
				title:         "Turnover Forecast",
				content:       "Projected turnover rate for the coming periods.",
				visualization: VizLineMulti,
				analysis:      schema.PredictionAnalysis,
				dataSource:    "turnover",
				params:        schema.Params{paramValueField: "rate", "nonNegative": true},
				byDepartment:  true,
			},
			{
				title:         "Retention Actions",
				content:       "Recommended actions to reduce turnover.",
				visualization: VizCardList,
				analysis:      schema.RecommendationAnalysis,
				params:        schema.Params{"scenario": RetentionScenario},
			},
		},
	},
	schema.RecruitmentReport: {
		title:   "Recruitment Analysis Report",
		summary: "A summary of hiring volume and speed by department, hiring trends, how spend relates to hires, and the hiring outlook.",
		sections: []sectionSpec{
			{
				title:         "Hiring by Department",
				content:       "Hires and average time to fill per department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "recruitment",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"hires", "time_to_fill"}},
				byDepartment:  true,
			},
			{
				title:         "Hiring Trend",
				content:       "Direction of hiring volume over the window.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "recruitment",
				params:        schema.Params{paramValueField: "hires"},
				byDepartment:  true,
			},
			{
				title:         "Spend and Hires",
				content:       "Relationship between recruitment cost and hires.",
				visualization: VizScatter,
				analysis:      schema.CorrelationAnalysis,
				dataSource:    "recruitment",
				params:        schema.Params{"xField": "cost", "yField": "hires"},
				byDepartment:  true,
			},
			{
				title:         "Hiring Forecast",
				content:       "Expected hires for the coming periods.",
				visualization: VizLineMulti,
				analysis:      schema.PredictionAnalysis,
				dataSource:    "recruitment",
				params:        schema.Params{paramValueField: "hires", "nonNegative": true},
				byDepartment:  true,
			},
			{
				title:         "Recruitment Actions",
				content:       "Recommended actions to hire faster and better.",
				visualization: VizCardList,
				analysis:      schema.RecommendationAnalysis,
				params:        schema.Params{"scenario": RecruitmentScenario},
			},
		},
	},
	schema.CompensationReport: {
		title:   "Compensation Analysis Report",
		summary: "An analysis of pay levels by department, how pay is moving, outlying salaries, and whether pay tracks performance.",
		sections: []sectionSpec{
			{
				title:         "Pay by Department",
				content:       "Average salary per department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "salary_records",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"amount"}},
				byDepartment:  true,
			},
			{
				title:         "Pay Trend",
				content:       "Direction of salary amounts over the window.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "salary_records",
				params:        schema.Params{paramValueField: "amount"},
				byDepartment:  true,
			},
			{
				title:         "Salary Outliers",
				content:       "Salaries far from the organisation average.",
				visualization: VizScatter,
				analysis:      schema.AnomalyAnalysis,
				dataSource:    "salary_records",
				params:        schema.Params{paramValueField: "amount"},
				byDepartment:  true,
			},
			{
				title:         "Pay and Performance",
				content:       "Relationship between salary and performance rating.",
				visualization: VizScatter,
				analysis:      schema.CorrelationAnalysis,
				dataSource:    "salary_records",
				params:        schema.Params{"xField": "performance_rating", "yField": "amount"},
				byDepartment:  true,
			},
		},
	},
	schema.LearningReport: {
		title:   "Learning and Development Report",
		summary: "An overview of training volume and results by department, how training effort is changing, whether more hours lead to better scores, and the training outlook.",
		sections: []sectionSpec{
			{
				title:         "Training by Department",
				content:       "Average training hours and scores per department.",
				visualization: VizBarGrouped,
				analysis:      schema.SegmentationAnalysis,
				dataSource:    "training_records",
				params:        schema.Params{"segmentBy": "department", "metrics": []string{"hours", "score"}, paramTimeField: "completion_date"},
				byDepartment:  true,
			},
			{
				title:         "Training Hours Trend",
				content:       "Direction of training hours over the window.",
				visualization: VizLine,
				analysis:      schema.TrendAnalysis,
				dataSource:    "training_records",
				params:        schema.Params{paramValueField: "hours", paramTimeField: "completion_date"},
				byDepartment:  true,
			},
			{
				title:         "Hours and Scores",
				content:       "Relationship between hours invested and assessment score.",
				visualization: VizScatter,
				analysis:      schema.CorrelationAnalysis,
				dataSource:    "training_records",
				params:        schema.Params{"xField": "hours", "yField": "score", paramTimeField: "completion_date"},
				byDepartment:  true,
			},
			{
				title:         "Training Forecast",
				content:       "Expected training hours for the coming periods.",
				visualization: VizLineMulti,
				analysis:      schema.PredictionAnalysis,
				dataSource:    "training_records",
				params:        schema.Params{paramValueField: "hours", paramTimeField: "completion_date", "nonNegative": true},
				byDepartment:  true,
			},
		},
	},
}
