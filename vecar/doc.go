// Package vecar implements the bivariate vector autoregression of revenue
// and sales leads.
//
// The system jointly models the invoice amount and a companion series,
// either raw leads or the two-month lagged leads column as selected by
// Config.Companion, as linear functions of p lagged values of both
// variables plus constant and trend deterministic terms.
//
// The lag order is chosen from 1..LagMax by a vote among four information
// criteria (AIC, BIC, HQ, FPE); ties break toward the smaller order, which
// keeps the selection deterministic.
//
// Forecasting iterates the fitted system forward. The companion series'
// forecast is computed internally but only the invoice column is surfaced
// to the evaluator.
//
// Fitting fails with forecast.ErrInsufficientObservations when the lag order
// would consume the training window, and with forecast.ErrNumericInstability
// when the design matrix is singular and the SVD fallback cannot recover.
package vecar
