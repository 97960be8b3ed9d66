package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// ErrTooFewPairs is returned when fewer than two complete pairs remain after
// dropping rows with undefined values.
var ErrTooFewPairs = errors.New("fewer than two complete observation pairs")

// Pearson computes the pairwise-complete Pearson correlation between two
// equal-length series. Rows where either value is NaN are dropped.
func Pearson(x, y *timeseries.Series) (float64, error) {
	if x.Len() != y.Len() {
		return 0, errors.New("series lengths differ")
	}

	xs := make([]float64, 0, x.Len())
	ys := make([]float64, 0, y.Len())
	for i := range x.Values {
		if math.IsNaN(x.Values[i]) || math.IsNaN(y.Values[i]) {
			continue
		}
		xs = append(xs, x.Values[i])
		ys = append(ys, y.Values[i])
	}
	if len(xs) < 2 {
		return 0, ErrTooFewPairs
	}

	r := stat.Correlation(xs, ys, nil)
	// Clamp tiny floating-point excursions outside [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

// CCFResult holds the cross-correlation function over a symmetric lag window.
// Values[i] corresponds to Lags[i]; a negative peak lag means x leads y by
// that many periods.
type CCFResult struct {
	Lags      []int
	Values    []float64
	PeakLag   int
	PeakValue float64
}

// CrossCorrelation computes the cross-correlation between x and y for lags
// in [-maxLag, +maxLag]. The value at lag k is the correlation between
// x shifted by k periods and y, using the standard estimator normalized by
// the full-sample variances.
func CrossCorrelation(x, y *timeseries.Series, maxLag int) (*CCFResult, error) {
	n := x.Len()
	if n != y.Len() {
		return nil, errors.New("series lengths differ")
	}
	if n < 3 {
		return nil, ErrTooFewPairs
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil, errors.New("lag window must be at least 1")
	}

	xMean, yMean := x.Mean(), y.Mean()
	var xVar, yVar float64
	for i := 0; i < n; i++ {
		xVar += (x.Values[i] - xMean) * (x.Values[i] - xMean)
		yVar += (y.Values[i] - yMean) * (y.Values[i] - yMean)
	}
	denom := math.Sqrt(xVar * yVar)
	if denom == 0 {
		return nil, errors.New("zero variance series")
	}

	result := &CCFResult{
		Lags:      make([]int, 0, 2*maxLag+1),
		Values:    make([]float64, 0, 2*maxLag+1),
		PeakValue: math.Inf(-1),
	}

	for k := -maxLag; k <= maxLag; k++ {
		sum := 0.0
		for t := 0; t < n; t++ {
			s := t + k
			if s < 0 || s >= n {
				continue
			}
			sum += (x.Values[s] - xMean) * (y.Values[t] - yMean)
		}
		r := sum / denom

		result.Lags = append(result.Lags, k)
		result.Values = append(result.Values, r)
		if r > result.PeakValue {
			result.PeakValue = r
			result.PeakLag = k
		}
	}

	return result, nil
}
