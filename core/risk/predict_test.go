package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

func scores(p schema.RiskTrendPrediction) []int {
	out := make([]int, len(p.Predictions))
	for i, m := range p.Predictions {
		out[i] = m.Score
	}
	return out
}

func TestPredictRiskTrendRegression(t *testing.T) {
	s := newTestService(fixtureTables())
	p, err := s.PredictRiskTrend(context.Background(), "E2", 0)
	require.NoError(t, err)

	require.Len(t, p.Predictions, DefaultForecastMonths)
	assert.Equal(t, "2024-07", p.Predictions[0].Month)
	assert.Equal(t, "2024-12", p.Predictions[5].Month)
	assert.Equal(t, []int{80, 90, 100, 100, 100, 100}, scores(p))
	assert.Equal(t, schema.IncreasingTrend, p.Trend)
	assert.InDelta(t, 1.0, p.Confidence, 1e-9)
}

func TestPredictRiskTrendDirections(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    schema.TrendDirection
	}{
		{"decreasing", []float64{90, 80, 70}, schema.DecreasingTrend},
		{"stable", []float64{50, 50.5, 51}, schema.StableTrend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]schema.Record, len(tt.history))
			for i, v := range tt.history {
				rows[i] = schema.Record{"employee_id": "E9", "score": v, "created_at": testNow.AddDate(0, i-len(rows), 0)}
			}
			s := newTestService(map[string][]schema.Record{riskScoresTable: rows})
			p, err := s.PredictRiskTrend(context.Background(), "E9", 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Trend)
			assert.Len(t, p.Predictions, 3)
			for _, m := range p.Predictions {
				assert.GreaterOrEqual(t, m.Score, 0)
				assert.LessOrEqual(t, m.Score, 100)
			}
		})
	}
}

func TestPredictRiskTrendFlatProjection(t *testing.T) {
	s := newTestService(fixtureTables())

	t.Run("short history", func(t *testing.T) {
		p, err := s.PredictRiskTrend(context.Background(), "E3", 4)
		require.NoError(t, err)
		assert.Equal(t, []int{55, 55, 55, 55}, scores(p))
		assert.Equal(t, schema.StableTrend, p.Trend)
		assert.Equal(t, 0.4, p.Confidence)
	})

	t.Run("no history computes a fresh score", func(t *testing.T) {
		fresh := s.CalculateRiskScore(context.Background(), "E1")
		p, err := s.PredictRiskTrend(context.Background(), "E1", 2)
		require.NoError(t, err)
		assert.Equal(t, []int{fresh.Score, fresh.Score}, scores(p))
		assert.Equal(t, 0.3, p.Confidence)
	})

	t.Run("unknown employee projects the neutral score", func(t *testing.T) {
		p, err := s.PredictRiskTrend(context.Background(), "E404", 1)
		require.NoError(t, err)
		assert.Equal(t, []int{50}, scores(p))
	})
}

func TestPredictRiskTrendHorizonIsCapped(t *testing.T) {
	s := newTestService(fixtureTables())

	for _, id := range []string{"E2", "E3"} { // regression and flat projection
		p, err := s.PredictRiskTrend(context.Background(), id, 1_000_000)
		require.NoError(t, err)
		assert.Len(t, p.Predictions, schema.MaxForecastPeriods, id)
	}
}

func TestPredictRiskTrendFetchError(t *testing.T) {
	m := &contract.MockDataStore{}
	m.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	_, err := NewService(m).PredictRiskTrend(context.Background(), "E1", 6)
	assert.ErrorIs(t, err, schema.ErrDataFetch)
	m.AssertExpectations(t)
}
