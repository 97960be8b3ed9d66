package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/timeseries"
)

func TestPeriodogramFindsAnnualCycle(t *testing.T) {
	n := 120
	values := make([]float64, n)
	for i := range values {
		values[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/12)
	}

	sd, err := Periodogram(timeseries.New(values), 1)
	require.NoError(t, err)
	require.Len(t, sd.Freq, n/2)

	freq, period, power := sd.Dominant()
	assert.InDelta(t, 1.0/12, freq, 0.02)
	assert.InDelta(t, 12.0, period, 3.0)
	assert.False(t, math.IsInf(power, -1))
}

func TestPeriodogramTrendArtifact(t *testing.T) {
	// A pure trend concentrates power at the lowest frequencies, so the
	// implied dominant period approaches the series length.
	n := 75
	values := make([]float64, n)
	for i := range values {
		values[i] = 1000 + 25*float64(i)
	}

	sd, err := Periodogram(timeseries.New(values), 2)
	require.NoError(t, err)

	_, period, _ := sd.Dominant()
	assert.Greater(t, period, float64(n)/3)
}

func TestPeriodogramTooShort(t *testing.T) {
	_, err := Periodogram(timeseries.New([]float64{1, 2, 3}), 0)
	assert.Error(t, err)
}
