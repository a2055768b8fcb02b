package risk

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// onboardingTenureMonths is the tenure below which onboarding is recommended.
const onboardingTenureMonths = 12

// GenerateRetentionRecommendations returns ranked retention actions for an employee.
// Every factor scoring 60 or more contributes its template. When none does, or the
// employee cannot be assessed, three generic recommendations are returned.
func (s *Service) GenerateRetentionRecommendations(ctx context.Context, employeeID string) []schema.Recommendation {
	a, p, err := s.assess(ctx, employeeID)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Retention recommendations for %s fell back to generic", employeeID), err)
		return genericRecommendations()
	}
	return recommendationsFor(a.Factors, p)
}

func recommendationsFor(factors map[schema.RiskFactor]int, p profile) []schema.Recommendation {
	var recs []schema.Recommendation
	for _, f := range highFactors(factors) {
		t, ok := factorTemplates[f]
		if !ok {
			continue
		}
		score := factors[f]
		recs = append(recs, t.build(uuid.NewString(), priorityFor(score), factorConfidence(score)))
		if f == schema.TenureFactor && p.tenureMonths.ok && p.tenureMonths.value < onboardingTenureMonths {
			recs = append(recs, onboardingTemplate.build(uuid.NewString(), priorityFor(score), factorConfidence(score)))
		}
	}
	if len(recs) == 0 {
		return genericRecommendations()
	}
	return algo.RankRecommendations(recs)
}

func genericRecommendations() []schema.Recommendation {
	recs := make([]schema.Recommendation, len(genericTemplates))
	for i, g := range genericTemplates {
		recs[i] = g.build(uuid.NewString(), g.priority, 0.6)
	}
	return algo.RankRecommendations(recs)
}

// priorityFor scales priority with the factor score.
func priorityFor(score int) schema.Level {
	switch {
	case score >= 80:
		return schema.HighLevel
	case score >= 70:
		return schema.MediumLevel
	default:
		return schema.LowLevel
	}
}

// factorConfidence grows from 0.6 at the high threshold to 0.9 at 100.
func factorConfidence(score int) float64 {
	return schema.ClampRange(0.6+0.3*float64(score-highFactorScore)/float64(100-highFactorScore), 0.6, 0.9)
}
