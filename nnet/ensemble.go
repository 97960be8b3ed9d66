package nnet

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/revcast/forecast"
	"github.com/sartorproj/revcast/timeseries"
)

// Config holds configuration for the ensemble model.
type Config struct {
	Reps         int     // Number of independently initialized members (default: 30)
	LagDepth     int     // Autoregressive input lag depth (default: 4)
	Folds        int     // Cross-validation folds for width selection (default: 5)
	HiddenSizes  []int   // Candidate hidden-layer widths (default: 2, 4, 8)
	Epochs       int     // Gradient-descent epochs per training run (default: 400)
	LearningRate float64 // Gradient-descent step size (default: 0.05)
	Seed         int64   // RNG seed; member seeds derive from it (default: 8)
	Workers      int     // Parallel member training (default: GOMAXPROCS)
	Interval     float64 // Prediction interval coverage (default: 0.95)

	// Progress, when set, is called once per trained member.
	Progress func()
}

// DefaultConfig returns the default ensemble configuration. The default
// seed reproduces the reference run.
func DefaultConfig() *Config {
	return &Config{
		Reps:         30,
		LagDepth:     4,
		Folds:        5,
		HiddenSizes:  []int{2, 4, 8},
		Epochs:       400,
		LearningRate: 0.05,
		Seed:         8,
		Interval:     0.95,
	}
}

// Model is the fitted ensemble. The point forecast is the member-wise mean;
// member spread provides a prediction interval.
type Model struct {
	cfg    *Config
	fitted bool

	members []*network

	// Standardization parameters from the training window.
	xMean, xStd []float64
	yMean, yStd float64

	trainY    []float64 // invoice values of the training window
	residuals []float64 // in-sample residuals for rows past the lag horizon
}

// New creates an unfitted ensemble model.
func New(cfg *Config) *Model {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Model{cfg: cfg}
}

// Name identifies the model in comparison output.
func (m *Model) Name() string { return "mlp-ensemble" }

// featureRow builds one input row: lagged invoice values newest-first, then
// the exogenous year, month, and leads regressors.
func featureRow(lags []float64, year, month, leads float64) []float64 {
	row := make([]float64, 0, len(lags)+3)
	row = append(row, lags...)
	return append(row, year, month, leads)
}

// Fit builds the lagged design matrix, standardizes it, and trains Reps
// independently seeded members, each choosing its hidden width by k-fold
// cross-validation. Members train in parallel; their seeds derive
// deterministically from the configured seed, so results do not depend on
// scheduling.
func (m *Model) Fit(train *timeseries.Table) error {
	depth := m.cfg.LagDepth
	n := train.Len()
	if n-depth < m.cfg.Folds+depth {
		return fmt.Errorf("%w: %d observations with lag depth %d", forecast.ErrInsufficientObservations, n, depth)
	}

	y := train.Invoice().Values
	x := make([][]float64, 0, n-depth)
	target := make([]float64, 0, n-depth)
	for t := depth; t < n; t++ {
		lags := make([]float64, depth)
		for i := 0; i < depth; i++ {
			lags[i] = y[t-i-1]
		}
		row := train.Row(t)
		x = append(x, featureRow(lags, float64(row.Year), float64(row.Month), row.Leads))
		target = append(target, y[t])
	}

	m.standardize(x, target)
	xs := m.scaleRows(x)
	ys := make([]float64, len(target))
	for i, v := range target {
		ys[i] = (v - m.yMean) / m.yStd
	}

	members := make([]*network, m.cfg.Reps)
	var progressMu sync.Mutex

	var g errgroup.Group
	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for rep := 0; rep < m.cfg.Reps; rep++ {
		rep := rep
		rng := rand.New(rand.NewSource(m.cfg.Seed + int64(rep)*1000003))
		g.Go(func() error {
			members[rep] = m.trainMember(xs, ys, rng)
			if m.cfg.Progress != nil {
				progressMu.Lock()
				m.cfg.Progress()
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.members = members
	m.trainY = append([]float64(nil), y...)
	m.fitted = true

	m.residuals = make([]float64, len(target))
	for i, row := range xs {
		m.residuals[i] = target[i] - m.memberMean(row)
	}
	return nil
}

// trainMember picks the member's hidden width by k-fold cross-validation,
// then trains the chosen width on the full training window.
func (m *Model) trainMember(xs [][]float64, ys []float64, rng *rand.Rand) *network {
	bestWidth := m.cfg.HiddenSizes[0]
	bestMSE := math.Inf(1)

	perm := rng.Perm(len(xs))
	folds := m.cfg.Folds
	if folds > len(xs) {
		folds = len(xs)
	}

	// Fixed per-fold init seeds so the CV score compares widths, not draws.
	foldSeeds := make([]int64, folds)
	for f := range foldSeeds {
		foldSeeds[f] = rng.Int63()
	}

	for _, width := range m.cfg.HiddenSizes {
		sse := 0.0
		count := 0
		for f := 0; f < folds; f++ {
			var trainX, valX [][]float64
			var trainY, valY []float64
			for i, idx := range perm {
				if i%folds == f {
					valX = append(valX, xs[idx])
					valY = append(valY, ys[idx])
				} else {
					trainX = append(trainX, xs[idx])
					trainY = append(trainY, ys[idx])
				}
			}
			net := newNetwork(len(xs[0]), width, rand.New(rand.NewSource(foldSeeds[f])))
			net.train(trainX, trainY, m.cfg.Epochs, m.cfg.LearningRate)
			for i, row := range valX {
				d := net.predict(row) - valY[i]
				sse += d * d
				count++
			}
		}
		if count > 0 && sse/float64(count) < bestMSE {
			bestMSE = sse / float64(count)
			bestWidth = width
		}
	}

	net := newNetwork(len(xs[0]), bestWidth, rng)
	net.train(xs, ys, m.cfg.Epochs, m.cfg.LearningRate)
	return net
}

func (m *Model) standardize(x [][]float64, y []float64) {
	dims := len(x[0])
	m.xMean = make([]float64, dims)
	m.xStd = make([]float64, dims)
	col := make([]float64, len(x))
	for d := 0; d < dims; d++ {
		for i := range x {
			col[i] = x[i][d]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.xMean[d], m.xStd[d] = mean, std
	}

	mean, std := stat.MeanStdDev(y, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	m.yMean, m.yStd = mean, std
}

func (m *Model) scaleRows(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for d, v := range row {
			scaled[d] = (v - m.xMean[d]) / m.xStd[d]
		}
		out[i] = scaled
	}
	return out
}

func (m *Model) scaleRow(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for d, v := range row {
		scaled[d] = (v - m.xMean[d]) / m.xStd[d]
	}
	return scaled
}

// memberMean is the destandardized member-wise mean prediction for one
// scaled input row.
func (m *Model) memberMean(scaled []float64) float64 {
	sum := 0.0
	for _, net := range m.members {
		sum += net.predict(scaled)
	}
	return sum/float64(len(m.members))*m.yStd + m.yMean
}

// Interval is a prediction interval derived from member spread.
type Interval struct {
	Lower []float64
	Upper []float64
}

// Forecast produces horizon point forecasts. The future table must supply
// the horizon's exogenous rows (year, month, and leads): lead counts over
// the forecast window are assumed known in advance, an acknowledged
// limitation of this model. Lagged invoice inputs beyond the training
// window come recursively from the ensemble's own forecasts.
func (m *Model) Forecast(horizon int, future *timeseries.Table) ([]float64, error) {
	forecasts, _, err := m.ForecastWithInterval(horizon, future)
	return forecasts, err
}

// ForecastWithInterval is Forecast plus the member-spread interval at the
// configured coverage.
func (m *Model) ForecastWithInterval(horizon int, future *timeseries.Table) ([]float64, *Interval, error) {
	if !m.fitted {
		return nil, nil, forecast.ErrNotFitted
	}
	if horizon < 1 {
		return nil, nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}
	if future == nil || future.Len() < horizon {
		return nil, nil, fmt.Errorf("future regressor table must cover the %d-period horizon", horizon)
	}

	depth := m.cfg.LagDepth
	ext := append([]float64(nil), m.trainY...)

	// Normal quantile for the two-sided interval; 1.96 at 95% coverage.
	z := distuv.UnitNormal.Quantile(0.5 + m.cfg.Interval/2)

	out := make([]float64, horizon)
	interval := &Interval{Lower: make([]float64, horizon), Upper: make([]float64, horizon)}
	preds := make([]float64, len(m.members))

	for h := 0; h < horizon; h++ {
		lags := make([]float64, depth)
		for i := 0; i < depth; i++ {
			lags[i] = ext[len(ext)-i-1]
		}
		row := future.Row(h)
		scaled := m.scaleRow(featureRow(lags, float64(row.Year), float64(row.Month), row.Leads))

		for i, net := range m.members {
			preds[i] = net.predict(scaled)*m.yStd + m.yMean
		}
		mean, std := stat.MeanStdDev(preds, nil)
		out[h] = mean
		interval.Lower[h] = mean - z*std
		interval.Upper[h] = mean + z*std

		ext = append(ext, mean)
	}
	return out, interval, nil
}

// Residuals returns in-sample residuals for the training rows past the lag
// horizon.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}
