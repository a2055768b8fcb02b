package schema

// Custom string types for type safety.
type (
	// AnalysisType represents one of the statistical strategies of the engine.
	AnalysisType string

	// ReportType represents a named multi-section report.
	ReportType string

	// Intent represents the classified purpose of a natural-language query.
	Intent string

	// EntityType represents the kind of a value extracted from a query.
	EntityType string

	// Level represents a high/medium/low grade for priority, impact and effort.
	Level string

	// TrendDirection represents the direction of a forecast risk trend.
	TrendDirection string

	// RiskFactor represents one of the weighted attrition-risk inputs.
	RiskFactor string

	// FilterOp represents a comparison operator on a table field.
	FilterOp string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the backend used for tabular data or history.
	DatabaseBackend string
)

// All analysis types supported by the engine.
const (
	TrendAnalysis          AnalysisType = "trend"
	AnomalyAnalysis        AnalysisType = "anomaly"
	CorrelationAnalysis    AnalysisType = "correlation"
	PredictionAnalysis     AnalysisType = "prediction"
	RecommendationAnalysis AnalysisType = "recommendation"
	SegmentationAnalysis   AnalysisType = "segmentation"
)

// All report types supported by the report generator.
const (
	WorkforceReport    ReportType = "workforce"
	PerformanceReport  ReportType = "performance"
	RetentionReport    ReportType = "retention"
	RecruitmentReport  ReportType = "recruitment"
	CompensationReport ReportType = "compensation"
	LearningReport     ReportType = "learning"
)

// All query intents.
const (
	TrendIntent          Intent = "trend"
	ComparisonIntent     Intent = "comparison"
	StatusIntent         Intent = "status"
	PredictionIntent     Intent = "prediction"
	RecommendationIntent Intent = "recommendation"
	AnomalyIntent        Intent = "anomaly"
	UnknownIntent        Intent = "unknown"
)

// All entity types.
const (
	DepartmentEntity EntityType = "department"
	MetricEntity     EntityType = "metric"
	TimeRangeEntity  EntityType = "timeRange"
)

// All levels. Rank orders them for sorting.
const (
	HighLevel   Level = "high"
	MediumLevel Level = "medium"
	LowLevel    Level = "low"
)

// All trend directions.
const (
	IncreasingTrend TrendDirection = "increasing"
	DecreasingTrend TrendDirection = "decreasing"
	StableTrend     TrendDirection = "stable"
)

// Risk factors used by the attrition-risk score.
const (
	TenureFactor                RiskFactor = "tenure"
	PerformanceFactor           RiskFactor = "performance"
	SatisfactionFactor          RiskFactor = "satisfaction"
	EngagementFactor            RiskFactor = "engagement"
	SalaryCompetitivenessFactor RiskFactor = "salary_competitiveness"
	PromotionTimeFactor         RiskFactor = "promotion_time"
	TrainingCompletionFactor    RiskFactor = "training_completion"
	ManagerRelationshipFactor   RiskFactor = "manager_relationship"
	WorkLifeBalanceFactor       RiskFactor = "work_life_balance"
)

// All filter operators.
const (
	OpEq  FilterOp = "eq"
	OpNeq FilterOp = "neq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	XLSXBackend       DatabaseBackend = "xlsx"
	NoneBackend       DatabaseBackend = "none"
)

// EngineVersion is attached to every analysis result and report.
const EngineVersion = "1.0.0"

// AllAnalysisTypes lists every analysis type in declaration order.
var AllAnalysisTypes = []AnalysisType{
	TrendAnalysis,
	AnomalyAnalysis,
	CorrelationAnalysis,
	PredictionAnalysis,
	RecommendationAnalysis,
	SegmentationAnalysis,
}

// AllReportTypes lists every report type in declaration order.
var AllReportTypes = []ReportType{
	WorkforceReport,
	PerformanceReport,
	RetentionReport,
	RecruitmentReport,
	CompensationReport,
	LearningReport,
}

// AllRiskFactors lists every risk factor in a fixed order.
// Ties between equal factor scores are broken by this order.
var AllRiskFactors = []RiskFactor{
	TenureFactor,
	PerformanceFactor,
	SatisfactionFactor,
	EngagementFactor,
	SalaryCompetitivenessFactor,
	PromotionTimeFactor,
	TrainingCompletionFactor,
	ManagerRelationshipFactor,
	WorkLifeBalanceFactor,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDataBackends lists all valid backends for the tabular data store.
var ValidDataBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	XLSXBackend:       {},
}

// ValidHistoryBackends lists all valid backends for run history tracking.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Rank returns the sort weight of a level (high=3, medium=2, low=1, other=0).
func (l Level) Rank() int {
	switch l {
	case HighLevel:
		return 3
	case MediumLevel:
		return 2
	case LowLevel:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether the analysis type is one the engine knows.
func (t AnalysisType) IsValid() bool {
	for _, known := range AllAnalysisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsValid reports whether the report type is one the generator knows.
func (t ReportType) IsValid() bool {
	for _, known := range AllReportTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MaxForecastPeriods caps every forecast horizon, in periods or months.
const MaxForecastPeriods = 36
