// Package stats provides the statistical procedures used by the revenue
// analysis: Pearson and cross-correlation, spectral density, autocorrelation
// functions, and the Ljung-Box residual test.
//
// # Exploratory analysis
//
// Pearson computes pairwise-complete correlations between the revenue column
// and the (possibly lagged) leads column. CrossCorrelation searches a
// symmetric lag window for the offset at which leads and revenue correlate
// most strongly; a peak at a negative lag means leads lead revenue:
//
//	ccf, _ := stats.CrossCorrelation(leads, invoice, 20)
//	// ccf.PeakLag == -2 suggests leads lead revenue by two months.
//
// Periodogram estimates the spectral density of the revenue series. Its
// documentation covers the one interpretive trap: a dominant period near the
// series length reflects the trend, not seasonality.
//
// # Residual diagnostics
//
// LjungBox tests residual autocorrelation up to a lag depth. WhiteNoiseCheck
// applies the pipeline's policy, requiring the test to pass at two depths
// (24 and 48 by default) and flagging conclusions that flip under a stricter
// threshold.
package stats
