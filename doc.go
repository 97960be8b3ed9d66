// Package revcast provides revenue forecasting from paired monthly revenue
// and sales-lead time series.
//
// Revcast loads two aligned monthly tables (invoice amounts and lead counts),
// studies their statistical relationship, and fits competing forecasting
// models to produce a 12-month revenue forecast, ranking the candidates by
// average squared forecast error over a held-out window.
//
// # Pipeline
//
// The analysis runs as a single batch over an in-memory table:
//
//  1. Join the revenue and leads tables on (year, month) and derive a
//     lagged-leads column (leads shifted forward two periods).
//  2. Exploratory statistics: Pearson correlation, cross-correlation lag
//     search, and a smoothed periodogram of the revenue series.
//  3. Fit competing forecasters against a shared train/test split: a linear
//     trend-plus-AR-noise model, a bivariate vector autoregression, a
//     multilayer-perceptron ensemble, and a PERT-style blend of the three.
//  4. Score each model's holdout forecast by average squared error and test
//     its residuals for white noise with a two-depth Ljung-Box check.
//  5. Re-fit on the full series for the production forecast.
//
// # Quick Start
//
//	table, _ := timeseries.Join(revenue, leads)
//	table = table.WithLaggedLeads(2)
//	train, test := table.Split(12)
//
//	m := trend.New(trend.DefaultConfig())
//	m.Fit(train)
//	forecasts, _ := m.Forecast(12, nil)
//	ase, _ := evaluate.ASE(test.Invoice().Values, forecasts)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: series and monthly table structures, alignment, CSV loading
//   - stats: correlation, cross-correlation, periodogram, ACF/PACF, Ljung-Box
//   - forecast: the shared Forecaster contract and error kinds
//   - trend: trend-plus-noise univariate model
//   - vecar: bivariate vector autoregression
//   - nnet: MLP regression ensemble
//   - blend: PERT-style forecast blending
//   - evaluate: ASE scoring, model comparison, residual diagnostics
package revcast
