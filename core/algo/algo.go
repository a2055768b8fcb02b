// Package algo holds the pure numeric primitives used by every analysis.
// Functions never return NaN or Inf: degenerate inputs yield neutral values.
package algo

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// snapEpsilon absorbs rounding noise around exact results such as r=1.
const snapEpsilon = 1e-12

// Index returns the x series 0..n-1 used for time-ordered regressions.
func Index(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// LinearRegression fits y = intercept + slope*x by least squares, with x = 0..n-1.
// A single point yields a flat line through it; no points yield zeros.
func LinearRegression(ys []float64) (slope, intercept float64) {
	switch len(ys) {
	case 0:
		return 0, 0
	case 1:
		return 0, ys[0]
	}
	alpha, beta := stat.LinearRegression(Index(len(ys)), ys, nil, false)
	if !finite(alpha) || !finite(beta) {
		return 0, mean(ys)
	}
	return beta, alpha
}

// RSquared returns the coefficient of determination of a fit over x = 0..n-1, in [0,1].
// A constant series is explained perfectly by a flat fit (1) and by nothing else (0).
func RSquared(ys []float64, slope, intercept float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	m := mean(ys)
	var ssTot, ssRes float64
	for i, y := range ys {
		pred := intercept + slope*float64(i)
		ssTot += (y - m) * (y - m)
		ssRes += (y - pred) * (y - pred)
	}
	if ssTot == 0 {
		if ssRes < snapEpsilon {
			return 1
		}
		return 0
	}
	r2 := stat.RSquared(Index(len(ys)), ys, nil, intercept, slope)
	if !finite(r2) {
		return 0
	}
	return clamp(r2, 0, 1)
}

// Predict evaluates a fitted line at x = 0..n-1.
func Predict(n int, slope, intercept float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = intercept + slope*float64(i)
	}
	return out
}

// Extrapolate evaluates a fitted line at x = from, from+1, ... for periods points.
func Extrapolate(from, periods int, slope, intercept float64) []float64 {
	if periods <= 0 {
		return []float64{}
	}
	out := make([]float64, periods)
	for k := range out {
		out[k] = intercept + slope*float64(from+k)
	}
	return out
}

// Pearson returns the Pearson correlation of two equal-length series, in [-1,1].
// Fewer than two points or zero variance in either series yields 0.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	if variance(xs) == 0 || variance(ys) == 0 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if !finite(r) {
		return 0
	}
	switch {
	case math.Abs(r-1) < snapEpsilon:
		return 1
	case math.Abs(r+1) < snapEpsilon:
		return -1
	}
	return clamp(r, -1, 1)
}

// MeanStdDev returns the mean and population standard deviation of values.
func MeanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	m, err := stats.Mean(values)
	if err != nil || !finite(m) {
		return 0, 0
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil || !finite(sd) {
		return m, 0
	}
	return m, sd
}

// Deviation returns how many standard deviations v lies from the mean.
// Zero spread yields 0.
func Deviation(v, mean, stdDev float64) float64 {
	if stdDev <= 0 || !finite(stdDev) {
		return 0
	}
	return math.Abs(v-mean) / stdDev
}

// IsAnomaly reports whether v lies at least threshold standard deviations from the mean.
// Nothing is anomalous in a series without spread.
func IsAnomaly(v, mean, stdDev, threshold float64) bool {
	if stdDev <= 0 || !finite(stdDev) {
		return false
	}
	return math.Abs(v-mean) >= threshold*stdDev
}

// MovingAverage returns the trailing means of every full window.
// The window is clamped to [1, len(values)].
func MovingAverage(values []float64, window int) []float64 {
	n := len(values)
	if n == 0 {
		return []float64{}
	}
	window = max(1, min(window, n))
	out := make([]float64, 0, n-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// MAPE returns the mean absolute percentage error of predictions as a fraction.
// Pairs whose actual value is zero are skipped; ok is false when no pair remains.
func MAPE(actual, predicted []float64) (mape float64, ok bool) {
	n := min(len(actual), len(predicted))
	var sum float64
	var used int
	for i := range n {
		if actual[i] == 0 || !finite(actual[i]) || !finite(predicted[i]) {
			continue
		}
		sum += math.Abs((actual[i] - predicted[i]) / actual[i])
		used++
	}
	if used == 0 {
		return 0, false
	}
	return sum / float64(used), true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return ss
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
