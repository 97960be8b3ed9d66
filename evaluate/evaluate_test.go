package evaluate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/timeseries"
)

// stubForecaster predicts the holdout's own invoice values plus a constant
// offset, so its ASE is exactly offset squared.
type stubForecaster struct {
	name        string
	offset      float64
	fitErr      error
	forecastErr error
	badLength   bool
	residuals   []float64
}

func (s *stubForecaster) Name() string { return s.name }

func (s *stubForecaster) Fit(_ *timeseries.Table) error { return s.fitErr }

func (s *stubForecaster) Forecast(horizon int, future *timeseries.Table) ([]float64, error) {
	if s.forecastErr != nil {
		return nil, s.forecastErr
	}
	if s.badLength {
		return make([]float64, horizon+3), nil
	}
	out := make([]float64, horizon)
	for i := range out {
		out[i] = future.Row(i).Invoice + s.offset
	}
	return out, nil
}

func (s *stubForecaster) Residuals() []float64 { return s.residuals }

func split(n, holdout int) (train, test *timeseries.Table) {
	rows := make([]timeseries.Observation, n)
	year, month := 2010, 1
	for i := 0; i < n; i++ {
		rows[i] = timeseries.Observation{Year: year, Month: month, Invoice: 1000 + 10*float64(i), Leads: 50}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return timeseries.NewTable(rows).Split(holdout)
}

func TestASE(t *testing.T) {
	ase, err := ASE([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, ase)

	ase, err = ASE([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, (1.0+4.0+9.0)/3, ase, 1e-12)
}

func TestASEErrors(t *testing.T) {
	_, err := ASE([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ASE(nil, nil)
	assert.Error(t, err)
}

func TestRunRanksByASE(t *testing.T) {
	train, test := split(75, 12)

	c := &Comparison{
		Optimistic:  &stubForecaster{name: "opt", offset: 6},
		MostLikely:  &stubForecaster{name: "ml", offset: 0},
		Pessimistic: &stubForecaster{name: "pes", offset: 6},
	}

	ranking, err := c.Run(train, test)
	require.NoError(t, err)
	require.Len(t, ranking.Scores, 4)

	assert.Equal(t, "ml", ranking.Scores[0].Model)
	assert.Equal(t, 0.0, ranking.Scores[0].ASE)

	// Blend offset is (6 + 4*0 + 6)/6 = 2, so its ASE is 4.
	assert.Equal(t, "pert-blend", ranking.Scores[1].Model)
	assert.InDelta(t, 4.0, ranking.Scores[1].ASE, 1e-9)

	assert.InDelta(t, 36.0, ranking.Scores[2].ASE, 1e-9)
	assert.InDelta(t, 36.0, ranking.Scores[3].ASE, 1e-9)

	best := ranking.Best()
	require.NotNil(t, best)
	assert.Equal(t, "ml", best.Model)
}

func TestRunIsolatesModelFailures(t *testing.T) {
	train, test := split(75, 12)

	fitErr := errors.New("window too short for lag order")
	c := &Comparison{
		Optimistic:  &stubForecaster{name: "opt", fitErr: fitErr},
		MostLikely:  &stubForecaster{name: "ml", offset: 1},
		Pessimistic: &stubForecaster{name: "pes", offset: 2},
	}

	ranking, err := c.Run(train, test)
	require.NoError(t, err)

	// No blend without all three base forecasts; the failed model sorts last.
	require.Len(t, ranking.Scores, 3)
	last := ranking.Scores[2]
	assert.Equal(t, "opt", last.Model)
	assert.ErrorIs(t, last.Err, fitErr)
	assert.True(t, math.IsNaN(last.ASE))

	assert.Equal(t, "ml", ranking.Scores[0].Model)
	assert.Equal(t, "pes", ranking.Scores[1].Model)
}

func TestRunAllModelsFail(t *testing.T) {
	train, test := split(75, 12)

	failed := errors.New("singular system")
	c := &Comparison{
		Optimistic:  &stubForecaster{name: "opt", forecastErr: failed},
		MostLikely:  &stubForecaster{name: "ml", fitErr: failed},
		Pessimistic: &stubForecaster{name: "pes", fitErr: failed},
	}

	ranking, err := c.Run(train, test)
	require.NoError(t, err)
	require.Len(t, ranking.Scores, 3)
	assert.Nil(t, ranking.Best())
}

func TestRunLengthMismatchIsFatal(t *testing.T) {
	train, test := split(75, 12)

	c := &Comparison{
		Optimistic:  &stubForecaster{name: "opt", badLength: true},
		MostLikely:  &stubForecaster{name: "ml"},
		Pessimistic: &stubForecaster{name: "pes"},
	}

	_, err := c.Run(train, test)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestRunEmptyHoldout(t *testing.T) {
	train, test := split(75, 0)
	c := &Comparison{MostLikely: &stubForecaster{name: "ml"}}

	_, err := c.Run(train, test)
	assert.Error(t, err)
}

func TestRunAttachesDiagnostics(t *testing.T) {
	train, test := split(75, 12)

	residuals := make([]float64, 60)
	for i := range residuals {
		// Alternating residuals are strongly autocorrelated at lag 1.
		residuals[i] = float64(1 - 2*(i%2))
	}
	c := &Comparison{
		MostLikely:  &stubForecaster{name: "ml", residuals: residuals},
		Pessimistic: &stubForecaster{name: "pes"},
		Optimistic:  &stubForecaster{name: "opt"},
	}

	ranking, err := c.Run(train, test)
	require.NoError(t, err)

	var ml *ModelScore
	for i := range ranking.Scores {
		if ranking.Scores[i].Model == "ml" {
			ml = &ranking.Scores[i]
		}
	}
	require.NotNil(t, ml)
	require.NotNil(t, ml.Diagnostics)
	require.NotNil(t, ml.Diagnostics.WhiteNoise)
	assert.False(t, ml.Diagnostics.WhiteNoise.WhiteNoise)
}

func TestDiagnoseEmptyResiduals(t *testing.T) {
	assert.Nil(t, Diagnose(nil, 0, nil))
}
