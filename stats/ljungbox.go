package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/revcast/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox performs the Ljung-Box portmanteau test for autocorrelation.
// The null hypothesis is that there is no autocorrelation up to the given
// lag depth; a small p-value rejects it. fitdf is the number of parameters
// estimated by the model that produced the residuals.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}
	pValue := 1 - chi2.CDF(q)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    pValue,
		Lags:      lags,
		DOF:       dof,
	}
}

// WhiteNoiseResult summarizes the two-depth white-noise policy applied to a
// model's forecast residuals.
type WhiteNoiseResult struct {
	Tests      []*LjungBoxResult
	Alpha      float64
	WhiteNoise bool // every p-value exceeds Alpha
	Borderline bool // passes at Alpha but would fail at the stricter 0.10
}

// WhiteNoiseCheck runs the Ljung-Box test at each configured lag depth and
// applies the policy: residuals are consistent with white noise when the
// p-value exceeds alpha at every depth. Depths longer than the residual
// series are clamped.
func WhiteNoiseCheck(residuals []float64, depths []int, fitdf int, alpha float64) *WhiteNoiseResult {
	series := timeseries.New(residuals)
	result := &WhiteNoiseResult{Alpha: alpha, WhiteNoise: true}

	const strictAlpha = 0.10
	strictPass := true

	for _, depth := range depths {
		lb := LjungBox(series, depth, fitdf)
		if lb == nil {
			continue
		}
		result.Tests = append(result.Tests, lb)
		if lb.PValue <= alpha {
			result.WhiteNoise = false
		}
		if lb.PValue <= strictAlpha {
			strictPass = false
		}
	}

	if len(result.Tests) == 0 {
		result.WhiteNoise = false
		return result
	}
	result.Borderline = result.WhiteNoise && !strictPass
	return result
}
