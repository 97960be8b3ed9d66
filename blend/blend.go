// Package blend combines the three base forecasts into the PERT-style
// weighted estimate.
package blend

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned when the three forecast sequences differ in
// length.
var ErrLengthMismatch = errors.New("forecast sequences differ in length")

// PERT computes the weighted blend (pessimistic + 4*mostLikely + optimistic)/6
// elementwise. In the revenue comparison the MLP ensemble plays optimistic,
// the trend-plus-noise model most-likely, and the VAR pessimistic.
//
// The 4x weight on the most-likely sequence reflects the finding that the
// pure linear model outperforms on this series, while retaining some of the
// nonlinear model's monthly variability. This is a pure function of its
// inputs: it must be recomputed whenever an upstream forecast changes.
func PERT(optimistic, mostLikely, pessimistic []float64) ([]float64, error) {
	n := len(mostLikely)
	if len(optimistic) != n || len(pessimistic) != n {
		return nil, ErrLengthMismatch
	}

	out := make([]float64, n)
	floats.AddScaled(out, 4, mostLikely)
	floats.Add(out, optimistic)
	floats.Add(out, pessimistic)
	floats.Scale(1.0/6, out)
	return out, nil
}
