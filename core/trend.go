package core

import (
	"fmt"
	"math"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

// Thresholds on R² used to describe how much a trend can be trusted.
const (
	significantR2 = 0.7
	weakR2        = 0.3
)

// analyzeTrend fits a line to valueField against row order.
func analyzeTrend(rows []schema.Record, params schema.Params) outcome {
	field := params.GetString(paramValueField, defaultValueField)
	values, _ := numericSeries(rows, field)

	data := schema.TrendData{
		Field:     field,
		Direction: schema.StableTrend,
		Values:    values,
		Predicted: []float64{},
	}
	if len(values) < 2 {
		return outcome{
			data:     data,
			insights: []string{fmt.Sprintf("Not enough data to determine a trend for %s (need at least 2 points, got %d).", field, len(values))},
		}
	}

	slope, intercept := algo.LinearRegression(values)
	r2 := algo.RSquared(values, slope, intercept)
	data.Slope = slope
	data.Intercept = intercept
	data.RSquared = r2
	data.Direction = directionOf(slope, 0)
	data.Predicted = algo.Predict(len(values), slope, intercept)
	if last := values[len(values)-1]; last != 0 {
		data.GrowthRate = slope / math.Abs(last) * 100
	}

	return outcome{
		data:       data,
		insights:   trendInsights(data),
		confidence: r2,
	}
}

// directionOf classifies a slope, treating |slope| <= tolerance as stable.
func directionOf(slope, tolerance float64) schema.TrendDirection {
	switch {
	case slope > tolerance:
		return schema.IncreasingTrend
	case slope < -tolerance:
		return schema.DecreasingTrend
	default:
		return schema.StableTrend
	}
}

func trendInsights(d schema.TrendData) []string {
	var headline string
	switch d.Direction {
	case schema.IncreasingTrend:
		headline = fmt.Sprintf("%s shows an upward trend of %.2f per period (%+.1f%% of the last observed value).", d.Field, d.Slope, d.GrowthRate)
	case schema.DecreasingTrend:
		headline = fmt.Sprintf("%s shows a downward trend of %.2f per period (%+.1f%% of the last observed value).", d.Field, d.Slope, d.GrowthRate)
	default:
		headline = fmt.Sprintf("%s is flat with no change per period.", d.Field)
	}

	var band string
	switch {
	case d.RSquared > significantR2:
		band = fmt.Sprintf("The trend is significant (R² = %.2f).", d.RSquared)
	case d.RSquared >= weakR2:
		band = fmt.Sprintf("A trend is present but weak (R² = %.2f).", d.RSquared)
	default:
		band = fmt.Sprintf("The trend is not significant (R² = %.2f).", d.RSquared)
	}
	return []string{headline, band}
}
