package schema

// riskFactorWeights is the fixed weight table of the attrition-risk score. Weights sum to 1.0.
var riskFactorWeights = map[RiskFactor]float64{
	TenureFactor:                0.15,
	PerformanceFactor:           0.20,
	SatisfactionFactor:          0.20,
	EngagementFactor:            0.15,
	SalaryCompetitivenessFactor: 0.10,
	PromotionTimeFactor:         0.05,
	TrainingCompletionFactor:    0.05,
	ManagerRelationshipFactor:   0.05,
	WorkLifeBalanceFactor:       0.05,
}

// riskFactorBasis describes how each factor is scored.
var riskFactorBasis = map[RiskFactor]string{
	TenureFactor:                "months employed, shorter tenure is riskier",
	PerformanceFactor:           "latest review rating 1-5, inverse-mapped",
	SatisfactionFactor:          "latest satisfaction survey rating 1-5, inverse-mapped",
	EngagementFactor:            "latest engagement survey rating 1-5, inverse-mapped",
	SalaryCompetitivenessFactor: "salary relative to department/role average",
	PromotionTimeFactor:         "months since last promotion (or hire) for recent high performers",
	TrainingCompletionFactor:    "trainings completed in the trailing 12 months",
	ManagerRelationshipFactor:   "constant until manager feedback data is available",
	WorkLifeBalanceFactor:       "constant until work-life balance data is available",
}

// GetRiskFactorWeights returns a copy of the fixed risk factor weights.
func GetRiskFactorWeights() map[RiskFactor]float64 {
	out := make(map[RiskFactor]float64, len(riskFactorWeights))
	for k, v := range riskFactorWeights {
		out[k] = v
	}
	return out
}

// GetRiskFactorBasis returns the scoring basis of a factor.
func GetRiskFactorBasis(factor RiskFactor) string {
	return riskFactorBasis[factor]
}

// FactorDefinition describes one weighted factor for display.
type FactorDefinition struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
	Basis  string  `json:"basis"`
}

// MetricsRenderModel contains all processed data needed for displaying the risk model.
type MetricsRenderModel struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Factors     []FactorDefinition `json:"factors"`
	Formula     string             `json:"formula"`
	Bands       map[string]string  `json:"bands"`
}
