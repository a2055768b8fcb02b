package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/schema"
)

func TestTrendSteadyGrowth(t *testing.T) {
	e := newTestEngine(map[string][]schema.Record{"turnover": seriesRows("rate", 100, 110, 120, 130)})

	res, err := e.Analyze(context.Background(), schema.AnalysisRequest{
		Type:       schema.TrendAnalysis,
		DataSource: "turnover",
		Parameters: schema.Params{"valueField": "rate"},
	})
	require.NoError(t, err)

	data, ok := res.Data.(schema.TrendData)
	require.True(t, ok)
	assert.InDelta(t, 10.0, data.Slope, 1e-9)
	assert.InDelta(t, 100.0, data.Intercept, 1e-9)
	assert.InDelta(t, 1.0, data.RSquared, 1e-9)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.Equal(t, schema.IncreasingTrend, data.Direction)
	assert.InDelta(t, 10.0/130*100, data.GrowthRate, 1e-9)
	assert.Len(t, data.Predicted, 4)

	require.Len(t, res.Insights, 2)
	assert.Contains(t, res.Insights[0], "upward trend")
	assert.Contains(t, res.Insights[1], "significant")
}

func TestTrendBands(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		direction schema.TrendDirection
		band      string
	}{
		{"decreasing", []float64{9, 7, 5, 3, 1}, schema.DecreasingTrend, "is significant"},
		{"flat", []float64{4, 4, 4, 4}, schema.StableTrend, "is significant"},
		{"noisy", []float64{1, 9, 2, 8, 3, 7, 4}, schema.IncreasingTrend, "not significant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := analyzeTrend(seriesRows("value", tt.values...), nil)
			data := out.data.(schema.TrendData)
			assert.Equal(t, tt.direction, data.Direction)
			assert.Contains(t, out.insights[1], tt.band)
			assert.GreaterOrEqual(t, out.confidence, 0.0)
			assert.LessOrEqual(t, out.confidence, 1.0)
		})
	}
}

func TestTrendNotEnoughData(t *testing.T) {
	out := analyzeTrend(seriesRows("value", 42), nil)
	data := out.data.(schema.TrendData)
	assert.Equal(t, schema.StableTrend, data.Direction)
	assert.Zero(t, out.confidence)
	assert.Contains(t, out.insights[0], "Not enough data")

	out = analyzeTrend(nil, nil)
	assert.Zero(t, out.confidence)
}

func TestTrendSkipsNonNumericRows(t *testing.T) {
	rows := []schema.Record{{"value": 1}, {"value": "n/a"}, {"other": 3}, {"value": "3"}}
	out := analyzeTrend(rows, nil)
	assert.Equal(t, []float64{1, 3}, out.data.(schema.TrendData).Values)
}
