package schema

// RiskAssessment is the attrition-risk score of one employee.
type RiskAssessment struct {
	EmployeeID string             `json:"employee_id"`
	Score      int                `json:"score"`
	Factors    map[RiskFactor]int `json:"factors"`
	Insights   []string           `json:"insights"`
}

// MonthlyScore is a forecast risk score for one future month.
type MonthlyScore struct {
	Month string `json:"month"` // YYYY-MM
	Score int    `json:"score"`
}

// RiskTrendPrediction forecasts an employee's risk score.
type RiskTrendPrediction struct {
	Predictions []MonthlyScore `json:"predictions"`
	Trend       TrendDirection `json:"trend"`
	Confidence  float64        `json:"confidence"`
}

// Recommendation is a scored remediation suggestion.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Priority    Level    `json:"priority"`
	Impact      Level    `json:"impact"`
	Effort      Level    `json:"effort"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Confidence  float64  `json:"confidence"`
}
