package risk

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/store"
	"github.com/huangsam/insight/schema"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// fixtureTables returns a new hire (E1) who is struggling and a settled veteran (E2).
func fixtureTables() map[string][]schema.Record {
	return map[string][]schema.Record{
		employeesTable: {
			{"employee_id": "E1", "department": "sales", "position": "rep", "salary": 5000.0, "hire_date": "2024-03-30"},
			{"employee_id": "E2", "department": "tech", "position": "engineer", "salary": 9000.0, "hire_date": "2015-02-01", "last_promotion_date": "2024-01-15"},
			{"employee_id": "E3", "department": "tech", "position": "engineer", "salary": 7000.0, "hire_date": "2018-05-01", "last_promotion_date": "2019-01-01"},
		},
		reviewsTable: {
			{"employee_id": "E1", "rating": 1, "review_date": "2024-06-01"},
			{"employee_id": "E2", "rating": 2, "review_date": "2023-06-01"},
			{"employee_id": "E2", "rating": 5, "review_date": "2024-06-01"},
			{"employee_id": "E3", "rating": 3, "review_date": "2024-06-01"},
		},
		surveysTable: {
			{"employee_id": "E1", "survey_type": "satisfaction", "rating": 1, "created_at": "2024-05-01"},
			{"employee_id": "E2", "survey_type": "satisfaction", "rating": 5, "created_at": "2024-05-01"},
			{"employee_id": "E2", "survey_type": "engagement", "rating": 1, "created_at": "2023-05-01"},
			{"employee_id": "E2", "survey_type": "engagement", "rating": 5, "created_at": "2024-05-01"},
		},
		trainingTable: {
			{"employee_id": "E2", "status": "completed", "completion_date": "2024-01-10"},
			{"employee_id": "E2", "status": "completed", "completion_date": "2024-02-10"},
			{"employee_id": "E2", "status": "completed", "completion_date": "2024-03-10"},
			{"employee_id": "E2", "status": "completed", "completion_date": "2024-04-10"},
			{"employee_id": "E2", "status": "in_progress", "completion_date": "2024-05-10"},
			{"employee_id": "E2", "status": "completed", "completion_date": "2022-01-10"},
		},
		riskScoresTable: {
			{"employee_id": "E2", "score": 40, "created_at": "2024-01-01"},
			{"employee_id": "E2", "score": 50, "created_at": "2024-02-01"},
			{"employee_id": "E2", "score": 60, "created_at": "2024-03-01"},
			{"employee_id": "E2", "score": 70, "created_at": "2024-04-01"},
			{"employee_id": "E3", "score": 60, "created_at": "2024-01-01"},
			{"employee_id": "E3", "score": 55, "created_at": "2024-02-01"},
		},
	}
}

func newTestService(tables map[string][]schema.Record) *Service {
	s := NewService(store.NewMemoryStore(tables))
	s.now = func() time.Time { return testNow }
	return s
}

func TestAssessNewHireAtRisk(t *testing.T) {
	s := newTestService(fixtureTables())
	a, err := s.Assess(context.Background(), "E1")
	require.NoError(t, err)

	assert.Equal(t, "E1", a.EmployeeID)
	assert.Equal(t, 80, a.Factors[schema.TenureFactor])
	assert.Equal(t, 90, a.Factors[schema.PerformanceFactor])
	assert.Equal(t, 90, a.Factors[schema.SatisfactionFactor])
	assert.Equal(t, 50, a.Factors[schema.EngagementFactor])
	assert.Equal(t, 40, a.Factors[schema.SalaryCompetitivenessFactor])
	assert.Equal(t, 50, a.Factors[schema.PromotionTimeFactor], "low performers are exempt")
	assert.Equal(t, 70, a.Factors[schema.TrainingCompletionFactor])

	weights := schema.GetRiskFactorWeights()
	partial := weights[schema.TenureFactor]*80 + weights[schema.PerformanceFactor]*90 + weights[schema.SatisfactionFactor]*90
	assert.InDelta(t, 48.0, partial, 1e-9)
	assert.Greater(t, a.Score, 50)
	assert.GreaterOrEqual(t, a.Score, 70)

	require.Len(t, a.Insights, 6)
	assert.Contains(t, a.Insights[0], "act now")
	assert.Equal(t, "Top risk factors: performance (90), satisfaction (90), tenure (80).", a.Insights[1])
	assert.Equal(t, factorSentences[schema.TenureFactor], a.Insights[2])
	assert.Equal(t, factorSentences[schema.TrainingCompletionFactor], a.Insights[5])
}

func TestPromotionFactorNeedsRecentHighPerformance(t *testing.T) {
	tables := func(reviewDate string) map[string][]schema.Record {
		return map[string][]schema.Record{
			employeesTable: {{"employee_id": "E5", "department": "tech", "salary": 7000.0, "hire_date": "2015-02-01", "last_promotion_date": "2019-01-01"}},
			reviewsTable:   {{"employee_id": "E5", "rating": 5, "review_date": reviewDate}},
			surveysTable:   {},
			trainingTable:  {},
		}
	}

	recent, err := newTestService(tables("2024-01-15")).Assess(context.Background(), "E5")
	require.NoError(t, err)
	assert.Equal(t, promotionScore(known(65)), recent.Factors[schema.PromotionTimeFactor])
	assert.Greater(t, recent.Factors[schema.PromotionTimeFactor], neutralFactorScore)

	stale, err := newTestService(tables("2022-03-01")).Assess(context.Background(), "E5")
	require.NoError(t, err)
	assert.Equal(t, 10, stale.Factors[schema.PerformanceFactor], "the rating itself still counts")
	assert.Equal(t, neutralFactorScore, stale.Factors[schema.PromotionTimeFactor])

	undated := profile{reviewRating: known(5), promotionMonths: known(65)}
	assert.False(t, undated.highPerformer())
}

func TestAssessSettledHighPerformer(t *testing.T) {
	s := newTestService(fixtureTables())
	a, err := s.Assess(context.Background(), "E2")
	require.NoError(t, err)

	assert.Equal(t, 20, a.Factors[schema.TenureFactor])
	assert.Equal(t, 10, a.Factors[schema.PerformanceFactor], "latest review wins")
	assert.Equal(t, 10, a.Factors[schema.SatisfactionFactor])
	assert.Equal(t, 10, a.Factors[schema.EngagementFactor], "latest survey of each type wins")
	assert.Equal(t, 25, a.Factors[schema.SalaryCompetitivenessFactor]) // 9000 / 8000
	assert.Equal(t, 20, a.Factors[schema.PromotionTimeFactor])
	assert.Equal(t, 15, a.Factors[schema.TrainingCompletionFactor])
	assert.Less(t, a.Score, 30)
	assert.Contains(t, a.Insights[0], "low")
	assert.Len(t, a.Insights, 2)
}

func TestAssessFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown employee", func(t *testing.T) {
		s := newTestService(fixtureTables())
		_, err := s.Assess(ctx, "E404")
		assert.ErrorIs(t, err, schema.ErrEmployeeNotFound)

		_, err = s.Assess(ctx, " ")
		assert.ErrorIs(t, err, schema.ErrEmployeeNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		m := &contract.MockDataStore{}
		m.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
		s := NewService(m)
		_, err := s.Assess(ctx, "E1")
		assert.ErrorIs(t, err, schema.ErrDataFetch)
	})

	t.Run("missing related table", func(t *testing.T) {
		tables := fixtureTables()
		delete(tables, surveysTable)
		_, err := newTestService(tables).Assess(ctx, "E1")
		assert.ErrorIs(t, err, schema.ErrDataFetch)
	})
}

func TestCalculateRiskScoreDegradesToNeutral(t *testing.T) {
	s := newTestService(fixtureTables())
	a := s.CalculateRiskScore(context.Background(), "E404")

	assert.Equal(t, "E404", a.EmployeeID)
	assert.Equal(t, 50, a.Score)
	require.Len(t, a.Factors, len(schema.AllRiskFactors))
	for _, f := range schema.AllRiskFactors {
		assert.Equal(t, 50, a.Factors[f], f)
	}
	assert.NotEmpty(t, a.Insights)

	ok := s.CalculateRiskScore(context.Background(), "E1")
	assert.NotEqual(t, 50, ok.Score)
}

func TestFactorBands(t *testing.T) {
	assert.Equal(t, 80, tenureScore(known(3)))
	assert.Equal(t, 60, tenureScore(known(11)))
	assert.Equal(t, 40, tenureScore(known(12)))
	assert.Equal(t, 20, tenureScore(known(120)))
	assert.Equal(t, 50, tenureScore(measure{}))

	for rating, want := range map[float64]int{1: 90, 2: 70, 3: 50, 4: 30, 5: 10, 0: 90, 9: 10} {
		assert.Equal(t, want, ratingScore(known(rating)), rating)
	}

	assert.Equal(t, 80, salaryScore(known(0.7)))
	assert.Equal(t, 40, salaryScore(known(1.0)))
	assert.Equal(t, 15, salaryScore(known(1.5)))

	assert.Equal(t, 85, promotionScore(known(48)))
	assert.Equal(t, 20, promotionScore(known(6)))

	assert.Equal(t, 70, trainingScore(0))
	assert.Equal(t, 50, trainingScore(1))
	assert.Equal(t, 30, trainingScore(3))
	assert.Equal(t, 15, trainingScore(10))
}

func TestWeightedScoreBounds(t *testing.T) {
	all := func(v int) map[schema.RiskFactor]int {
		out := map[schema.RiskFactor]int{}
		for _, f := range schema.AllRiskFactors {
			out[f] = v
		}
		return out
	}
	assert.Equal(t, 0, weightedScore(all(0)))
	assert.Equal(t, 50, weightedScore(all(50)))
	assert.Equal(t, 100, weightedScore(all(100)))
	assert.Equal(t, 100, weightedScore(all(250)), "factor scores are pre-clamped")

	var total float64
	for _, w := range schema.GetRiskFactorWeights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	for step := 0; step <= 100; step += 7 {
		f := all(step)
		f[schema.PerformanceFactor] = 100 - step
		got := weightedScore(f)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestMonthsBetween(t *testing.T) {
	d := func(s string) time.Time {
		parsed, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return parsed
	}
	assert.Equal(t, 3, monthsBetween(d("2024-03-30"), d("2024-06-30")))
	assert.Equal(t, 2, monthsBetween(d("2024-03-31"), d("2024-06-30")))
	assert.Equal(t, 12, monthsBetween(d("2023-06-30"), d("2024-06-30")))
	assert.Equal(t, 0, monthsBetween(d("2025-01-01"), d("2024-06-30")))
}

func TestGenerateRetentionRecommendations(t *testing.T) {
	s := newTestService(fixtureTables())
	recs := s.GenerateRetentionRecommendations(context.Background(), "E1")

	titles := make([]string, len(recs))
	seen := map[string]bool{}
	for i, r := range recs {
		titles[i] = r.Title
		_, err := uuid.Parse(r.ID)
		assert.NoError(t, err)
		assert.False(t, seen[r.ID], "duplicate id")
		seen[r.ID] = true
	}
	assert.Equal(t, []string{
		"Strengthen onboarding",
		"Hold a one-on-one satisfaction conversation",
		"Create a performance improvement plan",
		"Assign a mentor",
		"Build a learning plan",
	}, titles)
	assert.Equal(t, schema.HighLevel, recs[0].Priority)
	assert.Equal(t, schema.MediumLevel, recs[4].Priority)
}

func TestGenerateRetentionRecommendationsGeneric(t *testing.T) {
	s := newTestService(fixtureTables())
	want := []string{"Keep up regular one-on-ones", "Recognize contributions", "Discuss development opportunities"}

	for _, id := range []string{"E2", "E404"} {
		recs := s.GenerateRetentionRecommendations(context.Background(), id)
		require.Len(t, recs, 3, id)
		for i, r := range recs {
			assert.Equal(t, want[i], r.Title)
		}
	}
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, schema.HighLevel, priorityFor(80))
	assert.Equal(t, schema.MediumLevel, priorityFor(79))
	assert.Equal(t, schema.MediumLevel, priorityFor(70))
	assert.Equal(t, schema.LowLevel, priorityFor(60))
	assert.InDelta(t, 0.6, factorConfidence(60), 1e-9)
	assert.InDelta(t, 0.9, factorConfidence(100), 1e-9)
}

func TestRecommendationOrderIgnoresGenerationOrder(t *testing.T) {
	lowEffort := schema.Recommendation{ID: "low", Priority: schema.HighLevel, Impact: schema.HighLevel, Effort: schema.LowLevel}
	highEffort := schema.Recommendation{ID: "high", Priority: schema.HighLevel, Impact: schema.HighLevel, Effort: schema.HighLevel}

	for _, in := range [][]schema.Recommendation{{highEffort, lowEffort}, {lowEffort, highEffort}} {
		ranked := algo.RankRecommendations(slices.Clone(in))
		assert.Equal(t, "low", ranked[0].ID)
		assert.Equal(t, "high", ranked[1].ID)
	}
}
