package nlq

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/huangsam/insight/core"
	"github.com/huangsam/insight/schema"
)

// Entity confidences.
const (
	departmentConfidence = 0.9
	metricConfidence     = 0.85
	timeRangeConfidence  = 0.8
)

// intentBucket is one intent and the keywords that select it.
type intentBucket struct {
	intent   schema.Intent
	keywords []string
}

// intentBuckets are checked in order; the first bucket with a matching keyword wins.
var intentBuckets = []intentBucket{
	{schema.TrendIntent, []string{"趋势", "走势", "变化", "trend", "over time", "trajectory"}},
	{schema.ComparisonIntent, []string{"对比", "比较", "相比", "哪个部门", "compare", "comparison", " vs ", "versus", "which department"}},
	{schema.StatusIntent, []string{"现状", "当前", "目前", "多少", "status", "current", "how many", "how much"}},
	{schema.PredictionIntent, []string{"预测", "预计", "未来", "将会", "predict", "forecast", "projection", "will be"}},
	{schema.RecommendationIntent, []string{"建议", "推荐", "怎么办", "如何", "改善", "recommend", "suggest", "advice", "how to", "how can", "improve"}},
	{schema.AnomalyIntent, []string{"异常", "突增", "突降", "异动", "anomal", "outlier", "unusual", "spike"}},
}

// departments is the fixed list of department names recognized in queries.
var departments = []string{
	"销售", "技术", "研发", "市场", "人力资源", "财务", "运营", "客服", "产品", "行政",
	"sales", "engineering", "marketing", "hr", "finance", "operations", "support", "product",
}

// metricSpec maps a metric name and its synonyms onto a table.
type metricSpec struct {
	name       string
	aliases    []string
	dataSource string
	valueField string
	timeField  string
	scenario   string
}

// metrics is the fixed metric table. The first match of a name or alias wins per metric.
var metrics = []metricSpec{
	{name: "流失率", aliases: []string{"离职率", "离职", "流失", "turnover", "attrition"}, dataSource: "turnover", valueField: "rate", scenario: core.RetentionScenario},
	{name: "员工人数", aliases: []string{"人数", "编制", "headcount", "employee count"}, dataSource: "headcount", valueField: "count", scenario: core.RetentionScenario},
	{name: "绩效", aliases: []string{"绩效评分", "表现", "performance", "rating"}, dataSource: "performance_reviews", valueField: "rating", timeField: "review_date", scenario: core.PerformanceScenario},
	{name: "招聘", aliases: []string{"招聘人数", "入职", "recruitment", "hiring", "hires"}, dataSource: "recruitment", valueField: "hires", scenario: core.RecruitmentScenario},
	{name: "薪资", aliases: []string{"工资", "薪酬", "salary", "compensation", "pay"}, dataSource: "salary_records", valueField: "amount", scenario: core.RetentionScenario},
	{name: "培训", aliases: []string{"培训时长", "学习", "training", "learning"}, dataSource: "training_records", valueField: "hours", timeField: "completion_date", scenario: core.PerformanceScenario},
	{name: "满意度", aliases: []string{"敬业度", "satisfaction", "engagement"}, dataSource: "survey_responses", valueField: "rating", scenario: core.RetentionScenario},
}

// metricByName finds a metric by its canonical name.
func metricByName(name string) (metricSpec, bool) {
	for _, m := range metrics {
		if m.name == name {
			return m, true
		}
	}
	return metricSpec{}, false
}

// timeKind is the shape of a time-range phrase.
type timeKind int

const (
	pastSpan timeKind = iota
	futureSpan
	currentPeriod
	previousPeriod
	nextPeriod
)

// cnCount matches a count written in digits or Chinese numerals.
const cnCount = `(\d+|[一二两三四五六七八九十]+)`

// timePattern is one time-range regex. Capture groups hold the count and the unit.
type timePattern struct {
	kind timeKind
	re   *regexp.Regexp
}

// timePatterns are the five recognized time-range phrases.
var timePatterns = []timePattern{
	{pastSpan, regexp.MustCompile(`(?:过去|最近|近)\s*` + cnCount + `\s*个?(天|周|月|季度|年)|(?i:past|last)\s+(\d+)\s+(?i:(day|week|month|quarter|year)s?)\b`)},
	{futureSpan, regexp.MustCompile(`(?:未来|接下来)\s*` + cnCount + `\s*个?(天|周|月|季度|年)|(?i:next|coming)\s+(\d+)\s+(?i:(day|week|month|quarter|year)s?)\b`)},
	{currentPeriod, regexp.MustCompile(`(?:本|这个|今)(周|月|季度|年)|(?i:this)\s+(?i:(week|month|quarter|year))\b`)},
	{previousPeriod, regexp.MustCompile(`(?:上个?|去)(周|月|季度|年)|(?i:last|previous)\s+(?i:(week|month|quarter|year))\b`)},
	{nextPeriod, regexp.MustCompile(`(?:下个?|明)(周|月|季度|年)|(?i:next)\s+(?i:(week|month|quarter|year))\b`)},
}

// visualizations maps an analysis type to its suggested chart.
var visualizations = map[schema.AnalysisType]string{
	schema.TrendAnalysis:          core.VizLine,
	schema.AnomalyAnalysis:        core.VizScatter,
	schema.CorrelationAnalysis:    core.VizScatter,
	schema.PredictionAnalysis:     core.VizLineMulti,
	schema.RecommendationAnalysis: core.VizCardList,
	schema.SegmentationAnalysis:   core.VizBarGrouped,
}

// followups are the canned next questions after an answer of each analysis type.
var followups = map[schema.AnalysisType][]string{
	schema.TrendAnalysis:          {"What is the forecast for the next 3 months?", "Are there any anomalies in this period?"},
	schema.AnomalyAnalysis:        {"What caused these anomalies?", "How does this compare across departments?"},
	schema.CorrelationAnalysis:    {"Which departments show the strongest relationship?", "How has this relationship changed over time?"},
	schema.PredictionAnalysis:     {"What can we do to improve this outlook?", "How accurate were past forecasts?"},
	schema.RecommendationAnalysis: {"Which recommendation should we start with?", "How should we measure the impact?"},
	schema.SegmentationAnalysis:   {"What is the trend for the weakest segment?", "What are the recommendations for this gap?"},
}

// fallback is the answer when no analysis result is available.
type fallback struct {
	answer    string
	followups []string
}

// generalFallback answers unknown queries.
var generalFallback = fallback{
	answer:    "I need more information to answer that. Try asking about a trend, comparison, forecast or anomaly for a department and metric.",
	followups: []string{"Which metric are you interested in, such as turnover rate or headcount?", "Which department and time range should I look at?"},
}

// fallbacks are the "need more information" answers, one per intent bucket.
var fallbacks = map[schema.Intent]fallback{
	schema.TrendIntent: {
		answer:    "I could not compute that trend. Please name the metric and the period you want to see.",
		followups: []string{"Which metric should I track, such as turnover rate or headcount?", "Over which period, for example the past 6 months?"},
	},
	schema.ComparisonIntent: {
		answer:    "I could not run that comparison. Please tell me which metric to compare across departments.",
		followups: []string{"Which metric should I compare?", "Which departments are you interested in?"},
	},
	schema.StatusIntent: {
		answer:    "Status questions need a specific metric and department. Please narrow the question down.",
		followups: []string{"Which metric do you want the current value of?", "For which department?"},
	},
	schema.PredictionIntent: {
		answer:    "I could not produce that forecast. Please name the metric and how far ahead to look.",
		followups: []string{"Which metric should I forecast?", "How many months ahead, for example the next 3 months?"},
	},
	schema.RecommendationIntent: {
		answer:    "I could not put recommendations together. Please tell me which area you want to improve.",
		followups: []string{"Is this about retention, performance or recruitment?", "Which department should the actions target?"},
	},
	schema.AnomalyIntent: {
		answer:    "I could not check for anomalies. Please name the metric and period to scan.",
		followups: []string{"Which metric should I scan for anomalies?", "Which department and period?"},
	},
}

// containsTerm reports whether text mentions term. ASCII terms must match whole words.
func containsTerm(text, term string) bool {
	if !isASCII(term) {
		return strings.Contains(text, term)
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(term)
	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(needle)
		if wordBoundary(lower, start-1) && wordBoundary(lower, end) {
			return true
		}
		from = start + 1
	}
}

// wordBoundary reports whether the byte at i is outside text or not part of an ASCII word.
func wordBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := rune(text[i])
	return c >= 0x80 || !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_')
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
