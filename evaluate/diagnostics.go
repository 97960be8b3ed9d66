package evaluate

import (
	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
)

// DiagnosticsConfig holds configuration for the residual white-noise check.
type DiagnosticsConfig struct {
	Depths  []int   // Ljung-Box lag depths (default: 24, 48)
	Alpha   float64 // Significance threshold (default: 0.05)
	ACFLags int     // Residual ACF inspection depth (default: 24)
}

// DefaultDiagnosticsConfig returns the default diagnostics configuration.
func DefaultDiagnosticsConfig() *DiagnosticsConfig {
	return &DiagnosticsConfig{
		Depths:  []int{24, 48},
		Alpha:   0.05,
		ACFLags: 24,
	}
}

// Diagnostics reports whether a model's residuals look like white noise.
type Diagnostics struct {
	ACF        *stats.ACFResult
	WhiteNoise *stats.WhiteNoiseResult
}

// Diagnose computes the residual autocorrelation function and applies the
// two-depth Ljung-Box white-noise policy. fitdf is the number of parameters
// the producing model estimated. Returns nil for missing residuals.
func Diagnose(residuals []float64, fitdf int, cfg *DiagnosticsConfig) *Diagnostics {
	if len(residuals) == 0 {
		return nil
	}
	if cfg == nil {
		cfg = DefaultDiagnosticsConfig()
	}

	series := timeseries.New(residuals)
	return &Diagnostics{
		ACF:        stats.ACFWithConfidence(series, cfg.ACFLags),
		WhiteNoise: stats.WhiteNoiseCheck(residuals, cfg.Depths, fitdf, cfg.Alpha),
	}
}
