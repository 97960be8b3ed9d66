// Package evaluate scores the forecasting models against the shared
// held-out window.
//
// ASE is the comparison metric: the mean of squared forecast errors over
// the holdout. Every model is scored against the same split boundary so the
// numbers are directly comparable; the lowest ASE wins and ties are
// reported as-is.
//
// Comparison.Run isolates per-model failures. A model that cannot fit (too
// short a window for its order, a singular system) is recorded with its
// error and a missing score while the rest of the table still reports; one
// failing model never blocks the comparison. Only setup errors, such as
// mismatched sequence lengths, abort the run.
//
// Diagnose applies the residual white-noise policy: a Ljung-Box test at two
// lag depths (24 and 48 by default), passing only when the p-value clears
// the significance threshold at both, with borderline conclusions flagged.
package evaluate
