package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearRegression(t *testing.T) {
	tests := []struct {
		name          string
		ys            []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{7}, 0, 7},
		{"increasing", []float64{100, 110, 120, 130}, 10, 100},
		{"decreasing", []float64{9, 7, 5, 3, 1}, -2, 9},
		{"constant", []float64{4, 4, 4}, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept := LinearRegression(tt.ys)
			assert.InDelta(t, tt.wantSlope, slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, intercept, 1e-9)
		})
	}
}

func TestRSquared(t *testing.T) {
	t.Run("perfect fit", func(t *testing.T) {
		ys := []float64{100, 110, 120, 130}
		slope, intercept := LinearRegression(ys)
		assert.InDelta(t, 1.0, RSquared(ys, slope, intercept), 1e-9)
	})

	t.Run("constant series", func(t *testing.T) {
		ys := []float64{5, 5, 5, 5}
		assert.Equal(t, 1.0, RSquared(ys, 0, 5))
		assert.Equal(t, 0.0, RSquared(ys, 1, 0))
	})

	t.Run("noisy series stays in range", func(t *testing.T) {
		ys := []float64{3, 9, 1, 8, 2, 7}
		slope, intercept := LinearRegression(ys)
		r2 := RSquared(ys, slope, intercept)
		assert.GreaterOrEqual(t, r2, 0.0)
		assert.LessOrEqual(t, r2, 1.0)
	})

	t.Run("too few points", func(t *testing.T) {
		assert.Equal(t, 0.0, RSquared([]float64{1}, 0, 1))
	})
}

func TestPredictAndExtrapolate(t *testing.T) {
	assert.Equal(t, []float64{100, 110, 120}, Predict(3, 10, 100))
	assert.Equal(t, []float64{140, 150}, Extrapolate(4, 2, 10, 100))
	assert.Empty(t, Extrapolate(4, 0, 10, 100))
}

func TestPearson(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	neg := []float64{-1, -2, -3, -4, -5}

	assert.Equal(t, 1.0, Pearson(xs, xs))
	assert.Equal(t, -1.0, Pearson(xs, neg))
	assert.Equal(t, 0.0, Pearson(xs, []float64{2, 2, 2, 2, 2}))
	assert.Equal(t, 0.0, Pearson(xs[:1], xs[:1]))
	assert.Equal(t, 0.0, Pearson(xs, xs[:3]))

	r := Pearson([]float64{1, 2, 3, 4}, []float64{2, 1, 4, 3})
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
	assert.InDelta(t, 0.6, r, 1e-9)
}

func TestMeanStdDev(t *testing.T) {
	m, sd := MeanStdDev([]float64{10, 10, 10, 10, 100})
	assert.InDelta(t, 28.0, m, 1e-9)
	assert.InDelta(t, 36.0, sd, 1e-9)

	m, sd = MeanStdDev(nil)
	assert.Zero(t, m)
	assert.Zero(t, sd)

	m, sd = MeanStdDev([]float64{3, 3, 3})
	assert.Equal(t, 3.0, m)
	assert.Zero(t, sd)
}

func TestDeviationAndIsAnomaly(t *testing.T) {
	assert.InDelta(t, 2.0, Deviation(100, 28, 36), 1e-9)
	assert.Zero(t, Deviation(5, 5, 0))

	assert.True(t, IsAnomaly(100, 28, 36, 2))
	assert.False(t, IsAnomaly(10, 28, 36, 2))
	assert.False(t, IsAnomaly(10, 10, 0, 2))
	// a deviation equal to the threshold is flagged
	assert.True(t, IsAnomaly(14, 10, 2, 2))
	assert.False(t, IsAnomaly(13.9, 10, 2, 2))

	// a higher threshold never flags more points
	values := []float64{1, 2, 3, 50, 4, -30}
	m, sd := MeanStdDev(values)
	for _, v := range values {
		if IsAnomaly(v, m, sd, 2) {
			continue
		}
		assert.False(t, IsAnomaly(v, m, sd, 3))
	}
}

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{"empty", nil, 3, []float64{}},
		{"window 2", []float64{1, 3, 5, 7}, 2, []float64{2, 4, 6}},
		{"window larger than series", []float64{2, 4}, 5, []float64{3}},
		{"window below one", []float64{2, 4}, 0, []float64{2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MovingAverage(tt.values, tt.window))
		})
	}
}

func TestMAPE(t *testing.T) {
	mape, ok := MAPE([]float64{100, 200}, []float64{110, 180})
	assert.True(t, ok)
	assert.InDelta(t, 0.1, mape, 1e-9)

	mape, ok = MAPE([]float64{0, 100}, []float64{5, 100})
	assert.True(t, ok)
	assert.Zero(t, mape)

	_, ok = MAPE([]float64{0, 0}, []float64{1, 2})
	assert.False(t, ok)

	_, ok = MAPE([]float64{math.NaN()}, []float64{1})
	assert.False(t, ok)
}
