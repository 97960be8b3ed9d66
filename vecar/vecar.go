package vecar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/revcast/forecast"
	"github.com/sartorproj/revcast/timeseries"
)

// Companion selects which leads series accompanies revenue in the system.
type Companion int

const (
	// CompanionLeads models {invoice, leads}.
	CompanionLeads Companion = iota
	// CompanionLaggedLeads models {invoice, lagged leads}; the undefined
	// leading rows of the lag column are dropped before fitting.
	CompanionLaggedLeads
)

// Config holds configuration for the VAR model.
type Config struct {
	LagMax    int       // Maximum candidate lag order (default: 10)
	Companion Companion // Which companion series to use (default: leads)
}

// DefaultConfig returns the default VAR configuration.
func DefaultConfig() *Config {
	return &Config{
		LagMax:    10,
		Companion: CompanionLeads,
	}
}

// Model is a fitted bivariate VAR with constant and trend deterministic
// terms. Only the invoice equation's forecast is surfaced.
type Model struct {
	Lag   int            // selected lag order
	Votes map[string]int // lag order voted for by each criterion

	cfg       *Config
	fitted    bool
	a         []*mat.Dense // K x K coefficient matrix per lag
	c         *mat.Dense   // K x 2 deterministic terms (const, trend)
	y         *mat.Dense   // training data, T x K
	residuals []float64    // invoice equation residuals
}

// New creates an unfitted VAR model.
func New(cfg *Config) *Model {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Model{cfg: cfg}
}

// Name identifies the model in comparison output.
func (m *Model) Name() string {
	if m.cfg.Companion == CompanionLaggedLeads {
		return "var-lagged-leads"
	}
	return "var-leads"
}

// detCols is the number of deterministic regressors (constant and trend).
const detCols = 2

// numVars is the system dimension: invoice plus one companion series.
const numVars = 2

// Fit selects the lag order in 1..LagMax by an information-criterion vote
// (AIC, BIC, HQ, FPE; ties toward the smaller order) and estimates each
// equation by OLS on the stacked lag design matrix.
func (m *Model) Fit(train *timeseries.Table) error {
	y, err := m.trainingMatrix(train)
	if err != nil {
		return err
	}
	rows, _ := y.Dims()

	maxLag := m.cfg.LagMax
	if maxLag < 1 {
		maxLag = 1
	}
	if rows-maxLag < maxLag*numVars+detCols+1 {
		// Shrink the candidate range to what the window supports.
		for maxLag > 1 && rows-maxLag < maxLag*numVars+detCols+1 {
			maxLag--
		}
	}
	if rows-1 < numVars+detCols+1 {
		return fmt.Errorf("%w: %d usable rows for VAR(1)", forecast.ErrInsufficientObservations, rows)
	}

	p, votes, err := selectLag(y, maxLag)
	if err != nil {
		return err
	}

	fit, err := estimate(y, p)
	if err != nil {
		return err
	}

	m.Lag = p
	m.Votes = votes
	m.a = fit.a
	m.c = fit.c
	m.y = y
	m.residuals = fit.invoiceResiduals()
	m.fitted = true
	return nil
}

// trainingMatrix builds the T x 2 system matrix {invoice, companion},
// dropping leading rows where the companion is undefined.
func (m *Model) trainingMatrix(train *timeseries.Table) (*mat.Dense, error) {
	invoice := train.Invoice().Values
	var companion []float64
	if m.cfg.Companion == CompanionLaggedLeads {
		companion = train.LaggedLeads().Values
	} else {
		companion = train.Leads().Values
	}

	start := 0
	for start < len(companion) && math.IsNaN(companion[start]) {
		start++
	}
	n := len(invoice) - start
	if n < detCols+numVars+2 {
		return nil, fmt.Errorf("%w: %d observations after dropping undefined companion rows",
			forecast.ErrInsufficientObservations, n)
	}

	data := make([]float64, n*numVars)
	for i := 0; i < n; i++ {
		data[i*numVars] = invoice[start+i]
		data[i*numVars+1] = companion[start+i]
	}
	return mat.NewDense(n, numVars, data), nil
}

// varFit holds one estimated candidate system.
type varFit struct {
	p    int
	a    []*mat.Dense
	c    *mat.Dense
	u    *mat.Dense // residual matrix, Treg x K
	treg int
	m    int // regressors per equation
}

// invoiceResiduals extracts the invoice equation's residual column.
func (f *varFit) invoiceResiduals() []float64 {
	out := make([]float64, f.treg)
	for t := 0; t < f.treg; t++ {
		out[t] = f.u.At(t, 0)
	}
	return out
}

// sigmaDetML is the determinant of the maximum-likelihood residual
// covariance estimate, the ingredient of every information criterion.
func (f *varFit) sigmaDetML() float64 {
	var utu mat.Dense
	utu.Mul(f.u.T(), f.u)
	tf := float64(f.treg)
	s := mat.NewDense(numVars, numVars, nil)
	s.Scale(1/tf, &utu)
	return mat.Det(s)
}

// selectLag fits every candidate order and lets AIC, BIC, HQ, and FPE each
// vote for their minimizer. The order with the most votes wins; ties break
// toward the smaller order.
func selectLag(y *mat.Dense, maxLag int) (int, map[string]int, error) {
	type score struct {
		p                 int
		aic, bic, hq, fpe float64
	}
	var scores []score

	for p := 1; p <= maxLag; p++ {
		fit, err := estimate(y, p)
		if err != nil {
			continue
		}
		det := fit.sigmaDetML()
		if det <= 0 || math.IsNaN(det) {
			continue
		}
		tf := float64(fit.treg)
		mf := float64(fit.m)
		k := float64(numVars)
		logDet := math.Log(det)

		scores = append(scores, score{
			p:   p,
			aic: logDet + 2/tf*k*mf,
			bic: logDet + math.Log(tf)/tf*k*mf,
			hq:  logDet + 2*math.Log(math.Log(tf))/tf*k*mf,
			fpe: math.Pow((tf+mf)/(tf-mf), k) * det,
		})
	}
	if len(scores) == 0 {
		return 0, nil, fmt.Errorf("%w: no candidate lag order could be estimated", forecast.ErrNumericInstability)
	}

	argmin := func(get func(score) float64) int {
		best := scores[0].p
		bestVal := get(scores[0])
		for _, s := range scores[1:] {
			if v := get(s); v < bestVal {
				bestVal = v
				best = s.p
			}
		}
		return best
	}

	votes := map[string]int{
		"aic": argmin(func(s score) float64 { return s.aic }),
		"bic": argmin(func(s score) float64 { return s.bic }),
		"hq":  argmin(func(s score) float64 { return s.hq }),
		"fpe": argmin(func(s score) float64 { return s.fpe }),
	}

	tally := make(map[int]int)
	for _, p := range votes {
		tally[p]++
	}
	bestP, bestCount := 0, 0
	for p, count := range tally {
		if count > bestCount || (count == bestCount && p < bestP) {
			bestP = p
			bestCount = count
		}
	}
	return bestP, votes, nil
}

// estimate fits VAR(p) with constant and trend by OLS. Normal equations are
// tried first; a singular system falls back to SVD least squares, and an
// unfactorizable one is a numeric-instability failure.
func estimate(y *mat.Dense, p int) (*varFit, error) {
	rows, _ := y.Dims()
	treg := rows - p
	nreg := detCols + p*numVars
	if treg <= nreg {
		return nil, fmt.Errorf("%w: VAR(%d) needs more than %d usable rows, have %d",
			forecast.ErrInsufficientObservations, p, nreg, treg)
	}

	yreg := mat.NewDense(treg, numVars, nil)
	for t := 0; t < treg; t++ {
		for k := 0; k < numVars; k++ {
			yreg.Set(t, k, y.At(t+p, k))
		}
	}

	x := mat.NewDense(treg, nreg, nil)
	for t := 0; t < treg; t++ {
		col := 0
		x.Set(t, col, 1.0)
		col++
		x.Set(t, col, float64(t+p+1))
		col++
		for j := 1; j <= p; j++ {
			for k := 0; k < numVars; k++ {
				x.Set(t, col, y.At(t+p-j, k))
				col++
			}
		}
	}

	var b mat.Dense
	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err == nil {
		var xty mat.Dense
		xty.Mul(x.T(), yreg)
		b.Mul(&xtxInv, &xty)
	} else {
		var svd mat.SVD
		if ok := svd.Factorize(x, mat.SVDThin); !ok {
			return nil, fmt.Errorf("%w: design matrix is singular and SVD failed", forecast.ErrNumericInstability)
		}
		rank := svd.Rank(1e-12)
		if rank == 0 {
			return nil, fmt.Errorf("%w: design matrix has rank zero", forecast.ErrNumericInstability)
		}
		svd.SolveTo(&b, yreg, rank)
	}

	c := mat.NewDense(numVars, detCols, nil)
	for k := 0; k < numVars; k++ {
		for d := 0; d < detCols; d++ {
			c.Set(k, d, b.At(d, k))
		}
	}

	a := make([]*mat.Dense, p)
	for j := 0; j < p; j++ {
		aj := mat.NewDense(numVars, numVars, nil)
		rowOffset := detCols + j*numVars
		for eq := 0; eq < numVars; eq++ {
			for v := 0; v < numVars; v++ {
				aj.Set(eq, v, b.At(rowOffset+v, eq))
			}
		}
		a[j] = aj
	}

	var yhat mat.Dense
	yhat.Mul(x, &b)
	var u mat.Dense
	u.Sub(yreg, &yhat)

	return &varFit{p: p, a: a, c: c, u: &u, treg: treg, m: nreg}, nil
}

// Forecast iterates the fitted system horizon steps past the training
// window, carrying the trend regressor forward, and returns the invoice
// column only. The companion forecast stays internal. The future table is
// ignored; the system forecasts its own companion series.
func (m *Model) Forecast(horizon int, _ *timeseries.Table) ([]float64, error) {
	if !m.fitted {
		return nil, forecast.ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	p := m.Lag
	rows, _ := m.y.Dims()

	// Seed the recursion with the last p observed rows.
	buf := mat.NewDense(p+horizon, numVars, nil)
	for i := 0; i < p; i++ {
		for k := 0; k < numVars; k++ {
			buf.Set(i, k, m.y.At(rows-p+i, k))
		}
	}

	out := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		row := p + step
		tIdx := float64(rows + step + 1)
		for eq := 0; eq < numVars; eq++ {
			val := m.c.At(eq, 0) + m.c.At(eq, 1)*tIdx
			for lag := 1; lag <= p; lag++ {
				a := m.a[lag-1]
				for j := 0; j < numVars; j++ {
					val += a.At(eq, j) * buf.At(row-lag, j)
				}
			}
			buf.Set(row, eq, val)
		}
		out[step] = buf.At(row, 0)
	}
	return out, nil
}

// Residuals returns the invoice equation's training residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}
