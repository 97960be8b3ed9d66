package evaluate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/revcast/blend"
	"github.com/sartorproj/revcast/forecast"
	"github.com/sartorproj/revcast/timeseries"
)

// ErrLengthMismatch is returned when the actual and predicted sequences
// differ in length. It indicates a programming error upstream and aborts
// the run rather than being recorded as a model failure.
var ErrLengthMismatch = errors.New("actual and predicted sequences differ in length")

// ASE computes the average squared error between actual and predicted
// values. It is zero exactly when the sequences match elementwise.
func ASE(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("%w: %d actual vs %d predicted", ErrLengthMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, errors.New("cannot score empty sequences")
	}

	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual)), nil
}

// ModelScore is one row of the comparison table. A model that failed to fit
// or forecast carries its error and a NaN ASE; it does not abort the
// comparison.
type ModelScore struct {
	Model       string
	ASE         float64
	Forecasts   []float64
	Diagnostics *Diagnostics
	Err         error
}

// Ranking is the comparison result ordered by ascending ASE, failed models
// last.
type Ranking struct {
	Scores []ModelScore
}

// Best returns the lowest-ASE model, or nil if every model failed.
func (r *Ranking) Best() *ModelScore {
	if len(r.Scores) == 0 || r.Scores[0].Err != nil {
		return nil
	}
	return &r.Scores[0]
}

// Comparison runs the three base forecasters against a shared train/test
// split and blends them. The roles follow the PERT weighting: the MLP
// ensemble is the optimistic estimate, the trend-plus-noise model the
// most-likely, and the VAR the pessimistic.
type Comparison struct {
	Optimistic  forecast.Forecaster
	MostLikely  forecast.Forecaster
	Pessimistic forecast.Forecaster

	// Diagnostics configures the residual white-noise check; nil uses
	// DefaultDiagnosticsConfig.
	Diagnostics *DiagnosticsConfig
}

// Run fits every model on the training window and scores its forecast of
// the held-out window. The test table doubles as the future regressor table
// for models with exogenous inputs. Per-model failures are recorded, not
// propagated; only an invalid setup (length mismatch, empty holdout) aborts.
func (c *Comparison) Run(train, test *timeseries.Table) (*Ranking, error) {
	horizon := test.Len()
	if horizon == 0 {
		return nil, errors.New("empty holdout window")
	}
	actual := test.Invoice().Values

	diagCfg := c.Diagnostics
	if diagCfg == nil {
		diagCfg = DefaultDiagnosticsConfig()
	}

	ranking := &Ranking{}
	byRole := make(map[forecast.Forecaster]ModelScore)

	for _, f := range []forecast.Forecaster{c.MostLikely, c.Pessimistic, c.Optimistic} {
		if f == nil {
			continue
		}
		score, err := c.scoreModel(f, train, test, actual, horizon, diagCfg)
		if err != nil {
			return nil, err
		}
		byRole[f] = score
		ranking.Scores = append(ranking.Scores, score)
	}

	// The blend exists only when all three base forecasts do.
	opt, ml, pes := byRole[c.Optimistic], byRole[c.MostLikely], byRole[c.Pessimistic]
	if c.Optimistic != nil && c.MostLikely != nil && c.Pessimistic != nil &&
		opt.Err == nil && ml.Err == nil && pes.Err == nil {
		blended, err := blend.PERT(opt.Forecasts, ml.Forecasts, pes.Forecasts)
		if err != nil {
			return nil, err
		}
		ase, err := ASE(actual, blended)
		if err != nil {
			return nil, err
		}
		ranking.Scores = append(ranking.Scores, ModelScore{
			Model:     "pert-blend",
			ASE:       ase,
			Forecasts: blended,
		})
	}

	sort.SliceStable(ranking.Scores, func(i, j int) bool {
		si, sj := ranking.Scores[i], ranking.Scores[j]
		if (si.Err == nil) != (sj.Err == nil) {
			return si.Err == nil
		}
		if si.Err != nil {
			return false
		}
		return si.ASE < sj.ASE
	})
	return ranking, nil
}

// scoreModel fits and scores one forecaster. Model-specific failures are
// folded into the score; a length mismatch is returned as a fatal error.
func (c *Comparison) scoreModel(f forecast.Forecaster, train, test *timeseries.Table,
	actual []float64, horizon int, diagCfg *DiagnosticsConfig) (ModelScore, error) {

	score := ModelScore{Model: f.Name(), ASE: math.NaN()}

	if err := f.Fit(train); err != nil {
		score.Err = err
		return score, nil
	}
	forecasts, err := f.Forecast(horizon, test)
	if err != nil {
		score.Err = err
		return score, nil
	}

	ase, err := ASE(actual, forecasts)
	if err != nil {
		return score, err
	}

	score.ASE = ase
	score.Forecasts = forecasts
	score.Diagnostics = Diagnose(f.Residuals(), 0, diagCfg)
	return score, nil
}
