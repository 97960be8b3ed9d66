package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/timeseries"
)

func ar1(n int, phi float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for t := 1; t < n; t++ {
		out[t] = phi*out[t-1] + rng.NormFloat64()
	}
	return out
}

func TestACF(t *testing.T) {
	s := timeseries.New(ar1(300, 0.8, 42))
	acf := ACF(s, 10)
	require.Len(t, acf, 11)

	assert.Equal(t, 1.0, acf[0])
	assert.Greater(t, acf[1], 0.5)
	// Autocorrelation decays with lag for a stationary AR(1).
	assert.Greater(t, acf[1], acf[5])
	for _, v := range acf {
		assert.LessOrEqual(t, math.Abs(v), 1.0+1e-9)
	}
}

func TestPACFMatchesACFAtLagOne(t *testing.T) {
	s := timeseries.New(ar1(300, 0.8, 7))
	acf := ACF(s, 5)
	pacf := PACF(s, 5)
	require.Len(t, pacf, 6)

	assert.InDelta(t, acf[1], pacf[1], 1e-9)
	// For an AR(1) the partial autocorrelation cuts off after lag 1.
	assert.Less(t, math.Abs(pacf[3]), math.Abs(pacf[1]))
}

func TestACFWithConfidence(t *testing.T) {
	s := timeseries.New(ar1(100, 0.5, 3))
	res := ACFWithConfidence(s, 12)
	require.NotNil(t, res)

	assert.InDelta(t, 1.96/math.Sqrt(100), res.ConfBounds, 1e-9)
	assert.Equal(t, 13, len(res.Values))
	assert.Contains(t, SignificantLags(res.Values, res.ConfBounds), 1)
}

func TestPearson(t *testing.T) {
	x := timeseries.New([]float64{1, 2, 3, 4, 5, 6})
	y := timeseries.New([]float64{3, 5, 7, 9, 11, 13}) // y = 2x + 1
	z := timeseries.New([]float64{-1, -2, -3, -4, -5, -6})

	r, err := Pearson(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, err = Pearson(x, z)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestPearsonPairwiseComplete(t *testing.T) {
	nan := math.NaN()
	x := timeseries.New([]float64{1, nan, 3, 4, nan, 6})
	y := timeseries.New([]float64{2, 5, 6, 8, 9, 12}) // y = 2x on complete pairs

	r, err := Pearson(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	_, err = Pearson(timeseries.New([]float64{nan, nan, 1}), timeseries.New([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrTooFewPairs)

	_, err = Pearson(x, timeseries.New([]float64{1, 2}))
	assert.Error(t, err)
}

func TestCrossCorrelationPeak(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 120
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	// y trails x by three periods, so x leads y.
	for t := 3; t < n; t++ {
		y[t] = x[t-3]
	}

	res, err := CrossCorrelation(timeseries.New(x), timeseries.New(y), 10)
	require.NoError(t, err)
	require.Len(t, res.Lags, 21)

	assert.Equal(t, -10, res.Lags[0])
	assert.Equal(t, 10, res.Lags[20])
	assert.Equal(t, -3, res.PeakLag)
	assert.Greater(t, res.PeakValue, 0.8)
}

func TestCrossCorrelationErrors(t *testing.T) {
	x := timeseries.New([]float64{1, 2, 3, 4})

	_, err := CrossCorrelation(x, timeseries.New([]float64{1, 2}), 2)
	assert.Error(t, err)

	_, err = CrossCorrelation(timeseries.New([]float64{5, 5, 5, 5}), x, 2)
	assert.Error(t, err)

	_, err = CrossCorrelation(timeseries.New([]float64{1, 2}), timeseries.New([]float64{2, 1}), 1)
	assert.ErrorIs(t, err, ErrTooFewPairs)
}
