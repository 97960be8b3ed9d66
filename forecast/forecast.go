// Package forecast defines the contract shared by the revenue forecasting
// models and the error kinds the evaluator distinguishes.
package forecast

import (
	"errors"

	"github.com/sartorproj/revcast/timeseries"
)

// Sentinel errors shared across the model packages.
var (
	// ErrNotFitted is returned by Forecast before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before forecasting")

	// ErrInsufficientObservations is returned when the training window is
	// too short for the model's order parameters. It fails only the model
	// that raises it; the comparison continues with the others.
	ErrInsufficientObservations = errors.New("training window too short for model order")

	// ErrNumericInstability is returned when estimation hits a singular or
	// badly conditioned system. Like ErrInsufficientObservations it fails
	// only the raising model.
	ErrNumericInstability = errors.New("numerically unstable fit")
)

// Forecaster is a revenue forecasting model. Fit estimates the model over a
// training window; Forecast extrapolates horizon periods past the training
// window's end. Backtest and production runs use identical logic, differing
// only in the training window the caller supplies.
//
// future carries the forecast horizon's exogenous regressor rows (calendar
// months and lead counts) for models that need them; univariate models
// ignore it.
type Forecaster interface {
	Name() string
	Fit(train *timeseries.Table) error
	Forecast(horizon int, future *timeseries.Table) ([]float64, error)

	// Residuals returns the in-sample residuals aligned to the training
	// window, or nil before Fit.
	Residuals() []float64
}

// Result pairs a model's point forecasts with its training residuals.
type Result struct {
	Model     string
	Forecasts []float64
	Residuals []float64
}
