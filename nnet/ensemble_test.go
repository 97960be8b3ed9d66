package nnet

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/forecast"
	"github.com/sartorproj/revcast/timeseries"
)

func testConfig() *Config {
	return &Config{
		Reps:         4,
		LagDepth:     2,
		Folds:        3,
		HiddenSizes:  []int{2, 4},
		Epochs:       60,
		LearningRate: 0.05,
		Seed:         8,
		Workers:      2,
		Interval:     0.95,
	}
}

func monthlyTable(n int, seed int64) *timeseries.Table {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]timeseries.Observation, n)
	year, month := 2010, 1
	for i := 0; i < n; i++ {
		rows[i] = timeseries.Observation{
			Year:    year,
			Month:   month,
			Invoice: 100000 + 400*float64(i) + 500*rng.NormFloat64(),
			Leads:   200 + 20*rng.NormFloat64(),
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return timeseries.NewTable(rows)
}

func TestFitAndForecast(t *testing.T) {
	table := monthlyTable(60, 3)
	train, future := table.Split(12)

	m := New(testConfig())
	require.NoError(t, m.Fit(train))

	fc, err := m.Forecast(12, future)
	require.NoError(t, err)
	require.Len(t, fc, 12)
	for i, v := range fc {
		assert.False(t, math.IsNaN(v), "forecast %d is NaN", i)
		assert.False(t, math.IsInf(v, 0), "forecast %d is infinite", i)
	}

	assert.Len(t, m.Residuals(), train.Len()-2)
}

func TestForecastIsReproducible(t *testing.T) {
	table := monthlyTable(60, 5)
	train, future := table.Split(12)

	a, b := New(testConfig()), New(testConfig())
	require.NoError(t, a.Fit(train))
	require.NoError(t, b.Fit(train))

	fa, err := a.Forecast(12, future)
	require.NoError(t, err)
	fb, err := b.Forecast(12, future)
	require.NoError(t, err)

	// Member seeds derive from the configured seed, so a re-run is
	// bit-identical even with parallel training.
	assert.Equal(t, fa, fb)
}

func TestSeedChangesForecast(t *testing.T) {
	table := monthlyTable(60, 5)
	train, future := table.Split(12)

	cfg := testConfig()
	other := testConfig()
	other.Seed = 99

	a, b := New(cfg), New(other)
	require.NoError(t, a.Fit(train))
	require.NoError(t, b.Fit(train))

	fa, err := a.Forecast(12, future)
	require.NoError(t, err)
	fb, err := b.Forecast(12, future)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}

func TestForecastWithInterval(t *testing.T) {
	table := monthlyTable(60, 7)
	train, future := table.Split(6)

	m := New(testConfig())
	require.NoError(t, m.Fit(train))

	fc, interval, err := m.ForecastWithInterval(6, future)
	require.NoError(t, err)
	require.NotNil(t, interval)
	require.Len(t, interval.Lower, 6)
	require.Len(t, interval.Upper, 6)

	for h := range fc {
		assert.LessOrEqual(t, interval.Lower[h], fc[h], "step %d", h)
		assert.GreaterOrEqual(t, interval.Upper[h], fc[h], "step %d", h)
	}
}

func TestForecastNeedsFutureRegressors(t *testing.T) {
	table := monthlyTable(60, 9)
	train, future := table.Split(12)

	m := New(testConfig())
	require.NoError(t, m.Fit(train))

	_, err := m.Forecast(12, nil)
	assert.Error(t, err)

	shortFuture := future.Slice(0, 5)
	_, err = m.Forecast(12, shortFuture)
	assert.Error(t, err)
}

func TestFitErrors(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)

	err := m.Fit(monthlyTable(10, 1))
	assert.ErrorIs(t, err, forecast.ErrInsufficientObservations)

	_, err = m.Forecast(12, monthlyTable(12, 2))
	assert.ErrorIs(t, err, forecast.ErrNotFitted)
}
