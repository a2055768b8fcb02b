package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/schema"
)

func TestPredictionLinearSeries(t *testing.T) {
	e := newTestEngine(map[string][]schema.Record{"headcount": seriesRows("count", 10, 20, 30, 40, 50, 60)})

	res, err := e.Analyze(context.Background(), schema.AnalysisRequest{
		Type:       schema.PredictionAnalysis,
		DataSource: "headcount",
		Parameters: schema.Params{"valueField": "count", "window": 3, "periods": 3},
	})
	require.NoError(t, err)

	data := res.Data.(schema.PredictionData)
	assert.Equal(t, 2, data.Window) // n/3 caps the configured size
	assert.Equal(t, []float64{15, 25, 35, 45, 55}, data.MovingAverage)
	assert.InDelta(t, 10.0, data.Slope, 1e-9)
	assert.InDelta(t, 15.0, data.Intercept, 1e-9)
	require.Len(t, data.Forecast, 3)
	assert.InDelta(t, 65.0, data.Forecast[0], 1e-9)
	assert.InDelta(t, 75.0, data.Forecast[1], 1e-9)
	assert.InDelta(t, 85.0, data.Forecast[2], 1e-9)

	wantMAPE := (15.0/40 + 15.0/50 + 15.0/60) / 3
	assert.InDelta(t, wantMAPE, data.MAPE, 1e-9)
	assert.InDelta(t, 1-wantMAPE, data.Accuracy, 1e-9)
	assert.InDelta(t, data.Accuracy, res.Confidence, 1e-9)
	assert.Len(t, res.Insights, 3)
	assert.Contains(t, res.Insights[0], "65.00, 75.00, 85.00")
}

func TestPredictionFlooredAtZero(t *testing.T) {
	out := analyzePrediction(seriesRows("value", 50, 40, 30, 20, 10, 0), schema.Params{"nonNegative": true})
	data := out.data.(schema.PredictionData)
	assert.Equal(t, []float64{0, 0, 0}, data.Forecast)
	// MAPE of 112.5% drives accuracy to the floor
	assert.Zero(t, data.Accuracy)
	assert.Zero(t, out.confidence)
	assert.Contains(t, out.insights[1], "falls")
}

func TestPredictionWithoutFloorGoesNegative(t *testing.T) {
	out := analyzePrediction(seriesRows("value", 50, 40, 30, 20, 10, 0), nil)
	data := out.data.(schema.PredictionData)
	assert.InDelta(t, -5.0, data.Forecast[0], 1e-9)
}

func TestPredictionStableSeries(t *testing.T) {
	out := analyzePrediction(seriesRows("value", 5, 5, 5, 5, 5, 5), nil)
	data := out.data.(schema.PredictionData)
	assert.Equal(t, []float64{5, 5, 5}, data.Forecast)
	assert.Equal(t, 1.0, data.Accuracy)
	assert.Contains(t, out.insights[1], "flat")
}

func TestPredictionEdgeCases(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		out := analyzePrediction(nil, nil)
		data := out.data.(schema.PredictionData)
		assert.Empty(t, data.Forecast)
		assert.Zero(t, out.confidence)
	})

	t.Run("single point", func(t *testing.T) {
		out := analyzePrediction(seriesRows("value", 7), schema.Params{"periods": 2})
		data := out.data.(schema.PredictionData)
		assert.Equal(t, 1, data.Window)
		assert.Equal(t, []float64{7, 7}, data.Forecast)
		assert.Equal(t, neutralAccuracy, data.Accuracy)
	})

	t.Run("zero actuals are skipped", func(t *testing.T) {
		out := analyzePrediction(seriesRows("value", 0, 0, 0, 0, 0, 0), nil)
		assert.Equal(t, neutralAccuracy, out.data.(schema.PredictionData).Accuracy)
	})

	t.Run("invalid periods use default", func(t *testing.T) {
		out := analyzePrediction(seriesRows("value", 1, 2, 3), schema.Params{"periods": 0})
		assert.Len(t, out.data.(schema.PredictionData).Forecast, defaultPeriods)
	})
}

func TestPredictionHorizonIsCapped(t *testing.T) {
	e := newTestEngine(map[string][]schema.Record{"headcount": seriesRows("count", 10, 20, 30, 40, 50, 60)})

	res, err := e.Analyze(context.Background(), schema.AnalysisRequest{
		Type:       schema.PredictionAnalysis,
		DataSource: "headcount",
		Parameters: schema.Params{"valueField": "count", "periods": 5_000_000},
	})
	require.NoError(t, err)

	data := res.Data.(schema.PredictionData)
	assert.Equal(t, schema.MaxForecastPeriods, data.Periods)
	assert.Len(t, data.Forecast, schema.MaxForecastPeriods)
	assert.Less(t, len(res.Insights[0]), 1024)
}
