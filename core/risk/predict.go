package risk

import (
	"context"
	"math"
	"time"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

// Defaults of the risk trend forecast.
const (
	DefaultForecastMonths = 6

	minTrendHistory  = 3
	trendSlopeCutoff = 1.0

	// flat projections of stored and freshly computed scores
	flatHistoryConfidence = 0.4
	flatFreshConfidence   = 0.3
)

// PredictRiskTrend forecasts the monthly risk score of an employee from stored scores.
// With fewer than three stored scores the latest score is projected flat.
// A non-positive months falls back to DefaultForecastMonths and the horizon is
// capped at schema.MaxForecastPeriods.
func (s *Service) PredictRiskTrend(ctx context.Context, employeeID string, months int) (schema.RiskTrendPrediction, error) {
	if months <= 0 {
		months = DefaultForecastMonths
	}
	months = min(months, schema.MaxForecastPeriods)
	rows, err := s.query(ctx, schema.TableQuery{
		Table:   riskScoresTable,
		Filters: []schema.Filter{schema.Eq(employeeIDField, employeeID)},
		OrderBy: createdAtField,
	})
	if err != nil {
		return schema.RiskTrendPrediction{}, err
	}

	history := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Float(scoreField); ok {
			history = append(history, v)
		}
	}
	start := s.now()

	if len(history) < minTrendHistory {
		confidence := flatHistoryConfidence
		var latest float64
		if len(history) > 0 {
			latest = history[len(history)-1]
		} else {
			latest = float64(s.CalculateRiskScore(ctx, employeeID).Score)
			confidence = flatFreshConfidence
		}
		flat := make([]float64, months)
		for i := range flat {
			flat[i] = latest
		}
		return schema.RiskTrendPrediction{
			Predictions: monthlyScores(start, flat),
			Trend:       schema.StableTrend,
			Confidence:  confidence,
		}, nil
	}

	slope, intercept := algo.LinearRegression(history)
	forecast := algo.Extrapolate(len(history), months, slope, intercept)
	return schema.RiskTrendPrediction{
		Predictions: monthlyScores(start, forecast),
		Trend:       trendOf(slope),
		Confidence:  schema.Clamp01(algo.RSquared(history, slope, intercept)),
	}, nil
}

func trendOf(slope float64) schema.TrendDirection {
	switch {
	case slope > trendSlopeCutoff:
		return schema.IncreasingTrend
	case slope < -trendSlopeCutoff:
		return schema.DecreasingTrend
	default:
		return schema.StableTrend
	}
}

// monthlyScores labels each value with the following calendar months of start, clamped to [0,100].
func monthlyScores(start time.Time, values []float64) []schema.MonthlyScore {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	out := make([]schema.MonthlyScore, len(values))
	for i, v := range values {
		out[i] = schema.MonthlyScore{
			Month: first.AddDate(0, i+1, 0).Format("2006-01"),
			Score: int(math.Round(schema.ClampRange(v, 0, 100))),
		}
	}
	return out
}
