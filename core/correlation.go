package core

import (
	"fmt"
	"math"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

// Correlation strength grades on |r|.
const (
	strongCorrelation   = 0.7
	moderateCorrelation = 0.3
)

// analyzeCorrelation computes the Pearson correlation between xField and yField.
func analyzeCorrelation(rows []schema.Record, params schema.Params) outcome {
	xField := params.GetString("xField", "x")
	yField := params.GetString("yField", "y")

	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, r := range rows {
		x, okX := r.Float(xField)
		y, okY := r.Float(yField)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	data := schema.CorrelationData{
		XField:     xField,
		YField:     yField,
		Strength:   "negligible",
		SampleSize: len(xs),
	}
	if len(xs) < 2 {
		return outcome{
			data:       data,
			insights:   []string{fmt.Sprintf("Not enough paired observations of %s and %s to measure correlation.", xField, yField)},
			confidence: 0.5,
		}
	}

	r := algo.Pearson(xs, ys)
	data.Coefficient = r
	data.Strength = correlationStrength(r)
	return outcome{
		data:       data,
		insights:   correlationInsights(data),
		confidence: math.Min(math.Abs(r)*0.8+0.2*float64(len(xs))/1000, 0.95),
	}
}

func correlationStrength(r float64) string {
	switch abs := math.Abs(r); {
	case abs > strongCorrelation:
		return "strong"
	case abs > moderateCorrelation:
		return "moderate"
	default:
		return "negligible"
	}
}

func correlationInsights(d schema.CorrelationData) []string {
	if d.Strength == "negligible" {
		return []string{fmt.Sprintf("There is no meaningful correlation between %s and %s (r = %.2f).", d.XField, d.YField, d.Coefficient)}
	}
	sign, follows := "positive", "rise"
	if d.Coefficient < 0 {
		sign, follows = "negative", "fall"
	}
	return []string{
		fmt.Sprintf("There is a %s %s correlation between %s and %s (r = %.2f).", d.Strength, sign, d.XField, d.YField, d.Coefficient),
		fmt.Sprintf("As %s increases, %s tends to %s.", d.XField, d.YField, follows),
	}
}
