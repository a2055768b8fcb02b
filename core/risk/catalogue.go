package risk

import "github.com/huangsam/insight/schema"

// headlineBand is one row of the score headline table, checked in order.
type headlineBand struct {
	min    int
	format string
}

var headlineBands = []headlineBand{
	{min: 70, format: "Attrition risk is critical (score %d): act now."},
	{min: 50, format: "Attrition risk is high (score %d): build a retention plan."},
	{min: 30, format: "Attrition risk is moderate (score %d): monitor for changes."},
	{min: 0, format: "Attrition risk is low (score %d)."},
}

// factorSentences explains a high-scoring factor.
var factorSentences = map[schema.RiskFactor]string{
	schema.TenureFactor:                "Short tenure: the employee is still in the period where departures are most common.",
	schema.PerformanceFactor:           "Low recent performance ratings often precede voluntary or involuntary exits.",
	schema.SatisfactionFactor:          "Job satisfaction survey results are low.",
	schema.EngagementFactor:            "Engagement survey results are low.",
	schema.SalaryCompetitivenessFactor: "Salary is below the average for the same department and role.",
	schema.PromotionTimeFactor:         "A high performer has waited a long time for a promotion.",
	schema.TrainingCompletionFactor:    "Few trainings were completed in the last twelve months.",
	schema.ManagerRelationshipFactor:   "Signals about the manager relationship are concerning.",
	schema.WorkLifeBalanceFactor:       "Signals about work-life balance are concerning.",
}

// template is a recommendation without identity or priority.
type template struct {
	title       string
	description string
	actions     []string
	impact      schema.Level
	effort      schema.Level
	category    string
	tags        []string
}

// build stamps a template with an id, a priority and a confidence.
func (t template) build(id string, priority schema.Level, confidence float64) schema.Recommendation {
	return schema.Recommendation{
		ID:          id,
		Title:       t.title,
		Description: t.description,
		Actions:     append([]string(nil), t.actions...),
		Priority:    priority,
		Impact:      t.impact,
		Effort:      t.effort,
		Category:    t.category,
		Tags:        append([]string(nil), t.tags...),
		Confidence:  confidence,
	}
}

// factorTemplates holds the remediation of every risk factor.
var factorTemplates = map[schema.RiskFactor]template{
	schema.TenureFactor: {
		title:       "Assign a mentor",
		description: "Pair the employee with an experienced colleague for the first year.",
		actions:     []string{"Pick a mentor outside the reporting line", "Schedule biweekly mentor sessions", "Review progress at the six-month mark"},
		impact:      schema.MediumLevel,
		effort:      schema.LowLevel,
		category:    "onboarding",
		tags:        []string{"tenure", "mentoring"},
	},
	schema.PerformanceFactor: {
		title:       "Create a performance improvement plan",
		description: "Agree on concrete goals and support to lift performance.",
		actions:     []string{"Set three measurable goals", "Hold weekly check-ins", "Provide targeted coaching"},
		impact:      schema.HighLevel,
		effort:      schema.MediumLevel,
		category:    "performance",
		tags:        []string{"performance", "coaching"},
	},
	schema.SatisfactionFactor: {
		title:       "Hold a one-on-one satisfaction conversation",
		description: "Understand what drives the low satisfaction and agree on changes.",
		actions:     []string{"Ask about workload, role fit and recognition", "Agree on two concrete changes", "Follow up within a month"},
		impact:      schema.HighLevel,
		effort:      schema.LowLevel,
		category:    "engagement",
		tags:        []string{"satisfaction", "feedback"},
	},
	schema.EngagementFactor: {
		title:       "Increase engagement through ownership",
		description: "Give the employee a visible project or responsibility that matches their interests.",
		actions:     []string{"Discuss interests and strengths", "Assign a stretch project", "Recognize contributions publicly"},
		impact:      schema.MediumLevel,
		effort:      schema.MediumLevel,
		category:    "engagement",
		tags:        []string{"engagement", "growth"},
	},
	schema.SalaryCompetitivenessFactor: {
		title:       "Review compensation",
		description: "Bring salary in line with peers in the same department and role.",
		actions:     []string{"Compare salary with peer and market data", "Propose an adjustment in the next cycle"},
		impact:      schema.HighLevel,
		effort:      schema.HighLevel,
		category:    "compensation",
		tags:        []string{"salary", "compensation"},
	},
	schema.PromotionTimeFactor: {
		title:       "Discuss a promotion path",
		description: "Lay out what is needed for the next level and a realistic timeline.",
		actions:     []string{"Document promotion criteria", "Agree on a timeline", "Nominate for the next promotion round"},
		impact:      schema.HighLevel,
		effort:      schema.MediumLevel,
		category:    "career",
		tags:        []string{"promotion", "career"},
	},
	schema.TrainingCompletionFactor: {
		title:       "Build a learning plan",
		description: "Select courses that support both current work and career goals.",
		actions:     []string{"Choose two courses for the next quarter", "Reserve time for learning"},
		impact:      schema.MediumLevel,
		effort:      schema.LowLevel,
		category:    "learning",
		tags:        []string{"training", "growth"},
	},
	schema.ManagerRelationshipFactor: {
		title:       "Improve the manager relationship",
		description: "Reset expectations and communication between the employee and their manager.",
		actions:     []string{"Hold a skip-level conversation", "Offer the manager coaching"},
		impact:      schema.HighLevel,
		effort:      schema.MediumLevel,
		category:    "management",
		tags:        []string{"manager", "relationship"},
	},
	schema.WorkLifeBalanceFactor: {
		title:       "Rebalance workload",
		description: "Reduce sustained overtime and offer flexible working options.",
		actions:     []string{"Review workload and overtime", "Offer flexible hours or remote days"},
		impact:      schema.MediumLevel,
		effort:      schema.MediumLevel,
		category:    "wellbeing",
		tags:        []string{"work-life", "wellbeing"},
	},
}

// onboardingTemplate is added for employees in their first year.
var onboardingTemplate = template{
	title:       "Strengthen onboarding",
	description: "Make sure the first year has clear milestones, regular feedback and social integration.",
	actions:     []string{"Set 30/60/90-day goals", "Schedule monthly onboarding check-ins", "Introduce the employee to cross-team contacts"},
	impact:      schema.HighLevel,
	effort:      schema.LowLevel,
	category:    "onboarding",
	tags:        []string{"tenure", "onboarding"},
}

// genericTemplates are returned when no factor signals elevated risk.
var genericTemplates = []struct {
	template
	priority schema.Level
}{
	{
		template: template{
			title:       "Keep up regular one-on-ones",
			description: "Continue frequent conversations to catch concerns early.",
			actions:     []string{"Meet at least monthly", "Ask about career goals each quarter"},
			impact:      schema.MediumLevel,
			effort:      schema.LowLevel,
			category:    "engagement",
			tags:        []string{"general"},
		},
		priority: schema.MediumLevel,
	},
	{
		template: template{
			title:       "Recognize contributions",
			description: "Acknowledge good work publicly and specifically.",
			actions:     []string{"Highlight achievements in team meetings", "Nominate for recognition programs"},
			impact:      schema.MediumLevel,
			effort:      schema.LowLevel,
			category:    "recognition",
			tags:        []string{"general"},
		},
		priority: schema.LowLevel,
	},
	{
		template: template{
			title:       "Discuss development opportunities",
			description: "Agree on skills to grow over the next year.",
			actions:     []string{"Identify one skill to develop", "Find a matching course or project"},
			impact:      schema.MediumLevel,
			effort:      schema.MediumLevel,
			category:    "learning",
			tags:        []string{"general"},
		},
		priority: schema.LowLevel,
	},
}
