package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/insight/core/algo"
	"github.com/huangsam/insight/schema"
)

// Prediction defaults.
const (
	defaultWindow  = 3
	defaultPeriods = 3

	// neutralAccuracy is used when the back-test has nothing to measure.
	neutralAccuracy = 0.5
)

// analyzePrediction smooths valueField with a moving average, fits a line to the
// smoothed series and extrapolates it, at most schema.MaxForecastPeriods ahead.
// Accuracy is back-tested on the second half.
func analyzePrediction(rows []schema.Record, params schema.Params) outcome {
	field := params.GetString(paramValueField, defaultValueField)
	periods := params.GetInt("periods", defaultPeriods)
	if periods < 1 {
		periods = defaultPeriods
	}
	periods = min(periods, schema.MaxForecastPeriods)
	size := params.GetInt("window", defaultWindow)
	nonNegative := params.GetBool("nonNegative", false)

	values, _ := numericSeries(rows, field)
	n := len(values)
	window := max(1, min(size, n/3))

	data := schema.PredictionData{
		Field:         field,
		Window:        window,
		Periods:       periods,
		History:       values,
		MovingAverage: []float64{},
		Forecast:      []float64{},
	}
	if n == 0 {
		return outcome{
			data:     data,
			insights: []string{fmt.Sprintf("No history available to forecast %s.", field)},
		}
	}

	ma := algo.MovingAverage(values, window)
	slope, intercept := algo.LinearRegression(ma)
	forecast := algo.Extrapolate(len(ma), periods, slope, intercept)
	if nonNegative {
		for i, v := range forecast {
			forecast[i] = max(v, 0)
		}
	}
	mape, accuracy := backTest(values, window)

	data.MovingAverage = ma
	data.Forecast = forecast
	data.Slope = slope
	data.Intercept = intercept
	data.MAPE = mape
	data.Accuracy = accuracy

	return outcome{
		data:       data,
		insights:   predictionInsights(data),
		confidence: accuracy,
	}
}

// backTest replays one-step-ahead moving-average forecasts over the second half of
// the history and returns the MAPE and the derived accuracy.
func backTest(values []float64, window int) (float64, float64) {
	start := max(len(values)/2, window)
	var actual, predicted []float64
	for i := start; i < len(values); i++ {
		actual = append(actual, values[i])
		predicted = append(predicted, algo.MovingAverage(values[i-window:i], window)[0])
	}
	mape, ok := algo.MAPE(actual, predicted)
	if !ok {
		return 0, neutralAccuracy
	}
	return mape, schema.Clamp01(1 - mape)
}

func predictionInsights(d schema.PredictionData) []string {
	points := make([]string, len(d.Forecast))
	for i, v := range d.Forecast {
		points[i] = fmt.Sprintf("%.2f", v)
	}
	insights := []string{
		fmt.Sprintf("Forecast for %s over the next %d periods: %s.", d.Field, d.Periods, strings.Join(points, ", ")),
	}
	switch directionOf(d.Slope, 0) {
	case schema.IncreasingTrend:
		insights = append(insights, fmt.Sprintf("The smoothed series rises by %.2f per period (window %d).", d.Slope, d.Window))
	case schema.DecreasingTrend:
		insights = append(insights, fmt.Sprintf("The smoothed series falls by %.2f per period (window %d).", -d.Slope, d.Window))
	default:
		insights = append(insights, fmt.Sprintf("The smoothed series is flat (window %d).", d.Window))
	}
	insights = append(insights, fmt.Sprintf("Back-tested accuracy is %.1f%% (MAPE %.1f%%).", d.Accuracy*100, d.MAPE*100))
	return insights
}
