package risk

import (
	"cmp"
	"math"
	"slices"

	"github.com/huangsam/insight/schema"
)

// neutralFactorScore is used for every factor without usable data.
const neutralFactorScore = 50

// highFactorScore marks a factor as a driver of risk.
const highFactorScore = 60

// recentReviewMonths bounds how old a review may be to count as recent performance.
const recentReviewMonths = 12

// measure is an optional numeric input of the factor model.
type measure struct {
	value float64
	ok    bool
}

func known(v float64) measure { return measure{value: v, ok: true} }

// profile is everything the factor model knows about one employee.
type profile struct {
	tenureMonths    measure
	reviewRating    measure
	recentReview    bool
	satisfaction    measure
	engagement      measure
	salaryRatio     measure
	promotionMonths measure
	trainings       int
}

// highPerformer reports whether the latest review is high performance dated within
// the trailing recentReviewMonths. Undated reviews are not recent.
func (p profile) highPerformer() bool {
	return p.recentReview && p.reviewRating.ok && p.reviewRating.value >= 4
}

// scoreFactors scores all nine factors from 0 (safe) to 100 (risky).
func scoreFactors(p profile) map[schema.RiskFactor]int {
	promotion := neutralFactorScore
	if p.highPerformer() {
		promotion = promotionScore(p.promotionMonths)
	}
	return map[schema.RiskFactor]int{
		schema.TenureFactor:                tenureScore(p.tenureMonths),
		schema.PerformanceFactor:           ratingScore(p.reviewRating),
		schema.SatisfactionFactor:          ratingScore(p.satisfaction),
		schema.EngagementFactor:            ratingScore(p.engagement),
		schema.SalaryCompetitivenessFactor: salaryScore(p.salaryRatio),
		schema.PromotionTimeFactor:         promotion,
		schema.TrainingCompletionFactor:    trainingScore(p.trainings),
		schema.ManagerRelationshipFactor:   neutralFactorScore,
		schema.WorkLifeBalanceFactor:       neutralFactorScore,
	}
}

// tenureScore bands months employed. Newer employees leave more often.
func tenureScore(months measure) int {
	if !months.ok {
		return neutralFactorScore
	}
	switch m := months.value; {
	case m < 6:
		return 80
	case m < 12:
		return 60
	case m < 24:
		return 40
	case m < 60:
		return 30
	default:
		return 20
	}
}

// ratingScore maps a 1-5 rating inversely onto 90..10.
func ratingScore(rating measure) int {
	if !rating.ok {
		return neutralFactorScore
	}
	r := schema.ClampRange(rating.value, 1, 5)
	return int(math.Round(110 - 20*r))
}

// salaryScore bands own salary over the peer average.
func salaryScore(ratio measure) int {
	if !ratio.ok {
		return neutralFactorScore
	}
	switch r := ratio.value; {
	case r < 0.8:
		return 80
	case r < 0.9:
		return 65
	case r < 1.1:
		return 40
	case r < 1.2:
		return 25
	default:
		return 15
	}
}

// promotionScore bands months since the last promotion or hire.
func promotionScore(months measure) int {
	if !months.ok {
		return neutralFactorScore
	}
	switch m := months.value; {
	case m > 36:
		return 85
	case m > 24:
		return 70
	case m > 12:
		return 45
	default:
		return 20
	}
}

// trainingScore bands completed trainings in the trailing year.
func trainingScore(count int) int {
	switch {
	case count <= 0:
		return 70
	case count == 1:
		return 50
	case count <= 3:
		return 30
	default:
		return 15
	}
}

// weightedScore combines factor scores with the fixed weights into 0..100.
func weightedScore(factors map[schema.RiskFactor]int) int {
	weights := schema.GetRiskFactorWeights()
	var total float64
	for _, f := range schema.AllRiskFactors {
		total += weights[f] * schema.ClampRange(float64(factors[f]), 0, 100)
	}
	return int(math.Round(schema.ClampRange(total, 0, 100)))
}

// topFactors returns the n highest-scoring factors. Ties keep the declared factor order.
func topFactors(factors map[schema.RiskFactor]int, n int) []schema.RiskFactor {
	ordered := slices.Clone(schema.AllRiskFactors)
	slices.SortStableFunc(ordered, func(a, b schema.RiskFactor) int {
		return cmp.Compare(factors[b], factors[a])
	})
	return ordered[:min(n, len(ordered))]
}

// highFactors returns the factors at or above the high threshold, in declared order.
func highFactors(factors map[schema.RiskFactor]int) []schema.RiskFactor {
	var out []schema.RiskFactor
	for _, f := range schema.AllRiskFactors {
		if factors[f] >= highFactorScore {
			out = append(out, f)
		}
	}
	return out
}

// neutralFactors returns every factor at the neutral score.
func neutralFactors() map[schema.RiskFactor]int {
	out := make(map[schema.RiskFactor]int, len(schema.AllRiskFactors))
	for _, f := range schema.AllRiskFactors {
		out[f] = neutralFactorScore
	}
	return out
}
