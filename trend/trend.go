package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/forecast"
	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
)

// Config holds configuration for the trend-plus-noise model.
type Config struct {
	MaxAROrder      int // Maximum AR order for the noise search (default: 5)
	MinObservations int // Minimum training window length (default: 10)
}

// DefaultConfig returns the default trend model configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAROrder:      5,
		MinObservations: 10,
	}
}

// Model is a fitted trend-plus-noise model. The trend slope is a first-class
// deliverable (currency units per month), not just an internal parameter.
type Model struct {
	Intercept float64
	Slope     float64
	AROrder   int
	ARCoeffs  []float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	cfg       *Config
	fitted    bool
	n         int
	noise     []float64 // detrended training values, input to the AR component
	residuals []float64 // one-step residuals of trend + AR
}

// New creates an unfitted trend-plus-noise model.
func New(cfg *Config) *Model {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Model{cfg: cfg}
}

// Name identifies the model in comparison output.
func (m *Model) Name() string { return "trend-plus-noise" }

// Fit estimates the linear trend by OLS against the time index, then selects
// the AR noise order in 0..MaxAROrder by lowest AIC. Short training windows
// shrink the candidate order bound; windows below MinObservations fail.
func (m *Model) Fit(train *timeseries.Table) error {
	y := train.Invoice().Values
	n := len(y)
	if n < m.cfg.MinObservations {
		return fmt.Errorf("%w: %d observations, need %d", forecast.ErrInsufficientObservations, n, m.cfg.MinObservations)
	}

	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i + 1)
	}
	m.Intercept, m.Slope = stat.LinearRegression(t, y, nil, false)

	m.noise = make([]float64, n)
	for i := range y {
		m.noise[i] = y[i] - (m.Intercept + m.Slope*t[i])
	}

	// The candidate search never exceeds what the window supports.
	maxP := m.cfg.MaxAROrder
	if bound := n - m.cfg.MinObservations; bound < maxP {
		maxP = bound
	}
	if maxP < 0 {
		maxP = 0
	}

	bestAIC := math.Inf(1)
	var bestCoeffs []float64
	bestOrder := 0

	noiseSeries := timeseries.New(m.noise)
	for p := 0; p <= maxP; p++ {
		coeffs, aic, ok := fitAR(noiseSeries, p)
		if !ok {
			continue
		}
		if aic < bestAIC {
			bestAIC = aic
			bestCoeffs = coeffs
			bestOrder = p
		}
	}
	if math.IsInf(bestAIC, 1) {
		return fmt.Errorf("%w: no AR order produced a valid fit", forecast.ErrNumericInstability)
	}

	m.AROrder = bestOrder
	m.ARCoeffs = bestCoeffs
	m.n = n
	m.computeResiduals()
	m.computeIC()
	m.fitted = true
	return nil
}

// fitAR estimates a zero-mean AR(p) on the detrended noise by Yule-Walker
// and returns its coefficients with the conditional-likelihood AIC.
func fitAR(noise *timeseries.Series, p int) (coeffs []float64, aic float64, ok bool) {
	n := noise.Len()
	if p > 0 {
		acf := stats.ACF(noise, p)
		if acf == nil {
			return nil, 0, false
		}
		coeffs = yuleWalker(acf, p)
		if coeffs == nil {
			return nil, 0, false
		}
	}

	sse := 0.0
	count := 0
	for t := p; t < n; t++ {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += coeffs[i] * noise.Values[t-i-1]
		}
		r := noise.Values[t] - pred
		sse += r * r
		count++
	}
	if count <= p+1 {
		return nil, 0, false
	}

	variance := sse / float64(count-p-1)
	if variance <= 0 {
		return nil, 0, false
	}
	nf := float64(count)
	logLik := -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(variance) - sse/(2*variance)
	k := float64(p + 1)
	return coeffs, -2*logLik + 2*k, true
}

// computeResiduals fills the one-step residuals of the combined model. For
// the first AROrder rows only the trend prediction is available.
func (m *Model) computeResiduals() {
	p := m.AROrder
	m.residuals = make([]float64, m.n)
	for t := 0; t < m.n; t++ {
		if t < p {
			m.residuals[t] = m.noise[t]
			continue
		}
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += m.ARCoeffs[i] * m.noise[t-i-1]
		}
		m.residuals[t] = m.noise[t] - pred
	}

	sse := 0.0
	count := 0
	for t := p; t < m.n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if count > p+1 {
		m.Variance = sse / float64(count-p-1)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

// computeIC calculates AIC, AICc, and BIC for the selected model. The
// parameter count covers trend intercept and slope, the AR coefficients,
// and the noise variance.
func (m *Model) computeIC() {
	n := len(m.residuals)
	k := m.AROrder + 3

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	kf, nf := float64(k), float64(n)
	m.AIC = -2*m.LogLik + 2*kf
	if nf-kf-1 > 0 {
		m.AICc = m.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + kf*math.Log(nf)
}

// Forecast extrapolates the linear trend horizon periods past the training
// window and adds the AR component's best forecast of future noise, which
// decays toward zero as the horizon grows. The future table is ignored.
func (m *Model) Forecast(horizon int, _ *timeseries.Table) ([]float64, error) {
	if !m.fitted {
		return nil, forecast.ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	p := m.AROrder
	extNoise := make([]float64, m.n+horizon)
	copy(extNoise, m.noise)

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		t := m.n + h
		pred := 0.0
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * extNoise[t-i-1]
		}
		extNoise[t] = pred
		out[h] = m.Intercept + m.Slope*float64(t+1) + pred
	}
	return out, nil
}

// Residuals returns the one-step training residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// Summary reports the fitted model parameters.
type Summary struct {
	Intercept float64
	Slope     float64
	AROrder   int
	ARCoeffs  []float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	NObs      int
}

// Summary returns a summary of the fitted model, or nil before Fit.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	return &Summary{
		Intercept: m.Intercept,
		Slope:     m.Slope,
		AROrder:   m.AROrder,
		ARCoeffs:  m.ARCoeffs,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		NObs:      m.n,
	}
}

// yuleWalker estimates AR coefficients from the autocorrelation function
// using the Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v <= 0 {
			return nil
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= 1 - lambda*lambda
	}

	return phi
}
