package core

import (
	"fmt"
	"slices"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

// Scenarios with a fixed recommendation playbook.
const (
	RetentionScenario   = "retention"
	PerformanceScenario = "performance"
	RecruitmentScenario = "recruitment"
)

// scenarioPlaybook is the fixed content of one recommendation scenario.
type scenarioPlaybook struct {
	confidence      float64
	insights        []string
	recommendations []schema.Recommendation
}

// scenarioPlaybooks maps a scenario to its recommendations.
var scenarioPlaybooks = map[string]scenarioPlaybook{
	RetentionScenario: {
		confidence: 0.8,
		insights: []string{
			"Retention improves most when career growth and recognition are addressed together.",
			"Early-tenure employees are the most likely to leave and benefit most from structured onboarding.",
		},
		recommendations: []schema.Recommendation{
			{
				ID:          "retention-career-paths",
				Title:       "Publish clear career paths",
				Description: "Define promotion criteria and growth tracks for every role family.",
				Actions:     []string{"Document level expectations per role", "Hold twice-yearly career conversations", "Track internal mobility"},
				Priority:    schema.HighLevel, Impact: schema.HighLevel, Effort: schema.MediumLevel,
				Category: "career", Tags: []string{"retention", "growth"}, Confidence: 0.8,
			},
			{
				ID:          "retention-stay-interviews",
				Title:       "Run stay interviews",
				Description: "Ask high performers what keeps them and what would make them leave.",
				Actions:     []string{"Schedule interviews with top performers", "Share themes with managers", "Follow up on commitments within a quarter"},
				Priority:    schema.HighLevel, Impact: schema.MediumLevel, Effort: schema.LowLevel,
				Category: "engagement", Tags: []string{"retention", "feedback"}, Confidence: 0.75,
			},
			{
				ID:          "retention-compensation-review",
				Title:       "Benchmark compensation",
				Description: "Compare salaries with market data and close gaps for critical roles.",
				Actions:     []string{"Collect market salary data", "Identify under-market employees", "Budget targeted adjustments"},
				Priority:    schema.MediumLevel, Impact: schema.HighLevel, Effort: schema.HighLevel,
				Category: "compensation", Tags: []string{"retention", "salary"}, Confidence: 0.7,
			},
		},
	},
	PerformanceScenario: {
		confidence: 0.75,
		insights: []string{
			"Frequent feedback raises performance faster than annual reviews alone.",
			"Training investment pays off when it is tied to measurable goals.",
		},
		recommendations: []schema.Recommendation{
			{
				ID:          "performance-continuous-feedback",
				Title:       "Introduce continuous feedback",
				Description: "Replace once-a-year reviews with regular check-ins between managers and reports.",
				Actions:     []string{"Set up monthly one-on-ones", "Train managers on feedback", "Record goals and progress"},
				Priority:    schema.HighLevel, Impact: schema.HighLevel, Effort: schema.LowLevel,
				Category: "management", Tags: []string{"performance", "feedback"}, Confidence: 0.8,
			},
			{
				ID:          "performance-goal-alignment",
				Title:       "Align individual goals with team objectives",
				Description: "Make sure every employee understands how their work contributes to team results.",
				Actions:     []string{"Cascade quarterly objectives", "Review goal alignment in check-ins"},
				Priority:    schema.MediumLevel, Impact: schema.HighLevel, Effort: schema.MediumLevel,
				Category: "goals", Tags: []string{"performance", "okr"}, Confidence: 0.7,
			},
			{
				ID:          "performance-skills-training",
				Title:       "Target skills training",
				Description: "Direct training budget at the skills behind the lowest review scores.",
				Actions:     []string{"Map low ratings to skill gaps", "Assign targeted courses", "Re-measure after one review cycle"},
				Priority:    schema.MediumLevel, Impact: schema.MediumLevel, Effort: schema.MediumLevel,
				Category: "learning", Tags: []string{"performance", "training"}, Confidence: 0.7,
			},
		},
	},
	RecruitmentScenario: {
		confidence: 0.7,
		insights: []string{
			"Referral hires are typically faster to fill and stay longer.",
			"A slow hiring process loses strong candidates to competing offers.",
		},
		recommendations: []schema.Recommendation{
			{
				ID:          "recruitment-referrals",
				Title:       "Strengthen the referral program",
				Description: "Reward employees for referring candidates who are hired and stay.",
				Actions:     []string{"Raise referral bonuses for hard-to-fill roles", "Share open roles internally every week"},
				Priority:    schema.HighLevel, Impact: schema.HighLevel, Effort: schema.LowLevel,
				Category: "sourcing", Tags: []string{"recruitment", "referral"}, Confidence: 0.75,
			},
			{
				ID:          "recruitment-process-speed",
				Title:       "Shorten time to hire",
				Description: "Remove redundant interview rounds and commit to decision deadlines.",
				Actions:     []string{"Audit each interview stage", "Set a decision deadline per stage", "Track time to fill per role"},
				Priority:    schema.HighLevel, Impact: schema.MediumLevel, Effort: schema.MediumLevel,
				Category: "process", Tags: []string{"recruitment", "efficiency"}, Confidence: 0.7,
			},
			{
				ID:          "recruitment-employer-brand",
				Title:       "Invest in employer branding",
				Description: "Show the team, culture and growth opportunities on public channels.",
				Actions:     []string{"Publish employee stories", "Refresh the careers page"},
				Priority:    schema.LowLevel, Impact: schema.MediumLevel, Effort: schema.MediumLevel,
				Category: "branding", Tags: []string{"recruitment", "brand"}, Confidence: 0.6,
			},
		},
	},
}

// analyzeRecommendation returns the ranked playbook of a scenario.
// Unknown scenarios yield an empty list.
func analyzeRecommendation(rows []schema.Record, params schema.Params) outcome {
	scenario := params.GetString("scenario", RetentionScenario)
	playbook, ok := scenarioPlaybooks[scenario]
	if !ok {
		return outcome{
			data: schema.RecommendationData{
				Scenario:        scenario,
				Recommendations: []schema.Recommendation{},
			},
			insights:   []string{fmt.Sprintf("No recommendations are available for scenario %q.", scenario)},
			confidence: 0.5,
		}
	}

	recs := make([]schema.Recommendation, len(playbook.recommendations))
	for i, r := range playbook.recommendations {
		r.Actions = slices.Clone(r.Actions)
		r.Tags = slices.Clone(r.Tags)
		recs[i] = r
	}
	insights := slices.Clone(playbook.insights)
	if len(rows) > 0 {
		insights = append(insights, fmt.Sprintf("Based on %d supporting records.", len(rows)))
	}

	return outcome{
		data: schema.RecommendationData{
			Scenario:        scenario,
			Recommendations: algo.RankRecommendations(recs),
		},
		insights:   insights,
		confidence: playbook.confidence,
	}
}
