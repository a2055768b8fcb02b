package core

import (
	"fmt"
	"math"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

const defaultAnomalyThreshold = 2.0

// analyzeAnomaly flags values at least threshold standard deviations from the mean.
func analyzeAnomaly(rows []schema.Record, params schema.Params) outcome {
	field := params.GetString(paramValueField, defaultValueField)
	threshold := params.GetFloat("threshold", defaultAnomalyThreshold)
	if threshold <= 0 {
		threshold = defaultAnomalyThreshold
	}
	dateField := params.GetString(paramTimeField, defaultTimeField)

	values, indexes := numericSeries(rows, field)
	mean, stdDev := algo.MeanStdDev(values)

	data := schema.AnomalyData{
		Field:     field,
		Mean:      mean,
		StdDev:    stdDev,
		Threshold: threshold,
		Anomalies: []schema.AnomalyPoint{},
	}
	for i, v := range values {
		if !algo.IsAnomaly(v, mean, stdDev, threshold) {
			continue
		}
		point := schema.AnomalyPoint{
			Index:     indexes[i],
			Value:     v,
			Deviation: algo.Deviation(v, mean, stdDev),
		}
		if ts, ok := rows[indexes[i]].Time(dateField); ok {
			point.Date = ts.Format("2006-01-02")
		}
		data.Anomalies = append(data.Anomalies, point)
		if v > mean {
			data.HighCount++
		} else {
			data.LowCount++
		}
	}
	if len(values) > 0 {
		data.AnomalyRate = float64(len(data.Anomalies)) / float64(len(values))
	}

	return outcome{
		data:       data,
		insights:   anomalyInsights(data, len(values)),
		confidence: math.Min(0.5+0.5*float64(len(values))/1000, 0.95),
	}
}

func anomalyInsights(d schema.AnomalyData, n int) []string {
	if len(d.Anomalies) == 0 {
		return []string{fmt.Sprintf("No anomalies in %s at or beyond %.1f standard deviations across %d points.", d.Field, d.Threshold, n)}
	}

	insights := []string{
		fmt.Sprintf("Detected %d anomalies in %s (%.1f%% of %d points).", len(d.Anomalies), d.Field, d.AnomalyRate*100, n),
	}

	var first, last string
	for _, p := range d.Anomalies {
		if p.Date == "" {
			continue
		}
		if first == "" || p.Date < first {
			first = p.Date
		}
		if last == "" || p.Date > last {
			last = p.Date
		}
	}
	switch {
	case first != "" && first == last:
		insights = append(insights, fmt.Sprintf("Anomalies cluster on %s.", first))
	case first != "":
		insights = append(insights, fmt.Sprintf("Anomalies cluster between %s and %s.", first, last))
	}

	switch {
	case d.HighCount > d.LowCount:
		insights = append(insights, "Most anomalies are unusually high values.")
	case d.LowCount > d.HighCount:
		insights = append(insights, "Most anomalies are unusually low values.")
	default:
		insights = append(insights, "Anomalies are split evenly between high and low values.")
	}
	return insights
}
