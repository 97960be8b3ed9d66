// Package trend implements the univariate trend-plus-noise revenue model.
//
// The model decomposes the invoice series into a deterministic linear trend,
// fitted by ordinary least squares against the month index, and a stationary
// autoregressive noise component fitted on the detrended values. The AR
// order is chosen by the lowest AIC among candidate orders 0..MaxAROrder.
//
// The fitted slope (currency units per month) is a first-class deliverable
// for management reporting and is exposed directly on the model and its
// Summary.
//
// Backtest and production forecasts share identical logic: fitting on a
// truncated window and forecasting the holdout is the same operation as
// fitting on the full series and forecasting past its end.
//
//	m := trend.New(nil)
//	if err := m.Fit(train); err != nil { ... }
//	forecasts, _ := m.Forecast(12, nil)
//	slope := m.Slope
package trend
