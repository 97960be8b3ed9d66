package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeriesMoments(t *testing.T) {
	s := New([]float64{2, 4, 6, 8})
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 20.0/3, s.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(20.0/3), s.Std(), 1e-12)
	assert.Equal(t, 2.0, s.Min())
	assert.Equal(t, 8.0, s.Max())
}

func TestSeriesMomentsSkipNaN(t *testing.T) {
	s := New([]float64{math.NaN(), 2, 4, math.NaN(), 6})
	assert.InDelta(t, 4.0, s.Mean(), 1e-12)
	assert.InDelta(t, 4.0, s.Variance(), 1e-12)
	assert.Equal(t, []float64{2, 4, 6}, s.DropNaN().Values)
}

func TestSeriesShift(t *testing.T) {
	s := NewNamed("leads", []float64{1, 2, 3, 4, 5})
	shifted := s.Shift(2)

	assert.Equal(t, 5, shifted.Len())
	assert.True(t, math.IsNaN(shifted.Values[0]))
	assert.True(t, math.IsNaN(shifted.Values[1]))
	assert.Equal(t, []float64{1, 2, 3}, shifted.Values[2:])

	// Zero shift is the identity.
	assert.Equal(t, s.Values, s.Shift(0).Values)
}

func TestSeriesDiff(t *testing.T) {
	s := New([]float64{1, 4, 9, 16})
	assert.Equal(t, []float64{3, 5, 7}, s.Diff().Values)
	assert.Equal(t, 0, New([]float64{1}).Diff().Len())
}

func TestSeriesSliceAndCopy(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	sub := s.Slice(1, 3)
	assert.Equal(t, []float64{2, 3}, sub.Values)
	sub.Values[0] = 99
	assert.Equal(t, 2.0, s.Values[1])

	cp := s.Copy()
	cp.Values[0] = -1
	assert.Equal(t, 1.0, s.Values[0])

	assert.Equal(t, 0, s.Slice(4, 2).Len())
	assert.Equal(t, []float64{4, 5}, s.Slice(3, 100).Values)
}
