package stats

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/sartorproj/revcast/timeseries"
)

// SpectralDensity holds a smoothed periodogram: log-power in decibels per
// normalized frequency in (0, 0.5] cycles per period.
type SpectralDensity struct {
	Freq    []float64
	PowerDB []float64
}

// Periodogram computes the smoothed periodogram of the series. The mean is
// removed before the transform. truncation controls the smoothing window:
// each ordinate is averaged over a centered window of half-width truncation
// (0 keeps the raw periodogram).
//
// Reading the result needs care: only a dominant period that is a small
// fraction of the series length indicates genuine cyclic behavior. A peak
// whose implied period is close to the series length is an artifact of
// removing a single non-periodic low-frequency component (the trend) and
// must not be read as seasonality.
func Periodogram(series *timeseries.Series, truncation int) (*SpectralDensity, error) {
	n := series.Len()
	if n < 4 {
		return nil, errors.New("series too short for spectral analysis")
	}
	if truncation < 0 {
		truncation = 0
	}

	mean := series.Mean()
	centered := make([]float64, n)
	for i, v := range series.Values {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	// Raw periodogram at the Fourier frequencies j/n, j = 1..n/2.
	// The zero frequency carries only the (removed) mean and is dropped.
	nFreq := n / 2
	power := make([]float64, nFreq)
	freq := make([]float64, nFreq)
	for j := 1; j <= nFreq; j++ {
		freq[j-1] = float64(j) / float64(n)
		power[j-1] = cmplx.Abs(coeffs[j]) * cmplx.Abs(coeffs[j]) / float64(n)
	}

	if truncation > 0 {
		power = daniellSmooth(power, truncation)
	}

	db := make([]float64, nFreq)
	for i, p := range power {
		if p <= 0 {
			db[i] = math.Inf(-1)
			continue
		}
		db[i] = 10 * math.Log10(p)
	}

	return &SpectralDensity{Freq: freq, PowerDB: db}, nil
}

// daniellSmooth applies a centered moving average of half-width h, shrinking
// the window at the edges.
func daniellSmooth(power []float64, h int) []float64 {
	out := make([]float64, len(power))
	for i := range power {
		sum := 0.0
		count := 0
		for j := i - h; j <= i+h; j++ {
			if j < 0 || j >= len(power) {
				continue
			}
			sum += power[j]
			count++
		}
		out[i] = sum / float64(count)
	}
	return out
}

// Dominant returns the frequency with maximal power and its implied period
// in observation units (1/frequency).
func (sd *SpectralDensity) Dominant() (freq, period, powerDB float64) {
	best := -1
	bestPower := math.Inf(-1)
	for i, p := range sd.PowerDB {
		if p > bestPower {
			bestPower = p
			best = i
		}
	}
	if best < 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return sd.Freq[best], 1 / sd.Freq[best], sd.PowerDB[best]
}
