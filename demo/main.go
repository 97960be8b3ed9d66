// Command demo runs the full revenue forecasting analysis: load the two
// monthly source tables, explore their relationship, backtest the competing
// models over a shared holdout, rank them by ASE, and re-fit for the
// production forecast.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/sartorproj/revcast/evaluate"
	"github.com/sartorproj/revcast/nnet"
	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
	"github.com/sartorproj/revcast/trend"
	"github.com/sartorproj/revcast/vecar"
)

type options struct {
	revenueCSV     string
	leadsCSV       string
	futureLeadsCSV string
	outJSON        string

	horizon      int
	leadLag      int
	maxAROrder   int
	varLagMax    int
	ensembleReps int
	ensembleLags int
	seed         int64
	alpha        float64
	ccfWindow    int
	spectrumSpan int
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.revenueCSV, "revenue", "data/revenue.csv", "revenue CSV with Year, Month_Nbr, Invoice_Amount")
	flag.StringVar(&o.leadsCSV, "leads", "data/leads.csv", "leads CSV with Year, Month_Nbr, Leads")
	flag.StringVar(&o.futureLeadsCSV, "future-leads", "", "optional CSV of known future leads for the production ensemble forecast")
	flag.StringVar(&o.outJSON, "out", "forecast_results.json", "JSON output path")
	flag.IntVar(&o.horizon, "horizon", 12, "forecast horizon in months")
	flag.IntVar(&o.leadLag, "lead-lag", 2, "lag applied to the leads column")
	flag.IntVar(&o.maxAROrder, "max-ar-order", 5, "maximum AR order for the trend model's noise search")
	flag.IntVar(&o.varLagMax, "var-lag-max", 10, "maximum candidate VAR lag order")
	flag.IntVar(&o.ensembleReps, "ensemble-reps", 30, "MLP ensemble members")
	flag.IntVar(&o.ensembleLags, "ensemble-lags", 4, "MLP autoregressive input depth")
	flag.Int64Var(&o.seed, "seed", 8, "ensemble RNG seed")
	flag.Float64Var(&o.alpha, "alpha", 0.05, "white-noise significance threshold")
	flag.IntVar(&o.ccfWindow, "ccf-window", 20, "cross-correlation lag window")
	flag.IntVar(&o.spectrumSpan, "spectrum-span", 3, "periodogram smoothing half-width")
	flag.Parse()
	return o
}

// output mirrors the structures a downstream report generator consumes.
type output struct {
	NObs        int               `json:"n_obs"`
	Exploratory exploratoryOutput `json:"exploratory"`
	Backtest    []modelOutput     `json:"backtest"`
	Production  map[string][]float64 `json:"production"`
	TrendSlope  float64              `json:"trend_slope"`
}

type exploratoryOutput struct {
	CorrLeads       float64 `json:"corr_leads"`
	CorrLaggedLeads float64 `json:"corr_lagged_leads"`
	CCFPeakLag      int     `json:"ccf_peak_lag"`
	CCFPeakValue    float64 `json:"ccf_peak_value"`
	DominantFreq    float64 `json:"dominant_freq"`
	DominantPeriod  float64 `json:"dominant_period"`
}

type modelOutput struct {
	Model      string    `json:"model"`
	ASE        float64   `json:"ase,omitempty"`
	Error      string    `json:"error,omitempty"`
	Forecasts  []float64 `json:"forecasts,omitempty"`
	PValues    []float64 `json:"ljung_box_pvalues,omitempty"`
	WhiteNoise bool      `json:"white_noise"`
	Borderline bool      `json:"borderline"`
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	table, err := loadTable(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d aligned monthly observations\n", table.Len())

	out := &output{NObs: table.Len(), Production: make(map[string][]float64)}

	if err := explore(opts, table, out); err != nil {
		return err
	}

	ranking, ensembleCfg, err := backtest(opts, table, out)
	if err != nil {
		return err
	}

	return produce(opts, table, ranking, ensembleCfg, out)
}

func loadTable(opts *options) (*timeseries.Table, error) {
	revenue, err := timeseries.LoadMonthlyCSV(opts.revenueCSV, &timeseries.CSVOptions{ValueColumn: "Invoice_Amount"})
	if err != nil {
		return nil, fmt.Errorf("load revenue: %w", err)
	}
	leads, err := timeseries.LoadMonthlyCSV(opts.leadsCSV, &timeseries.CSVOptions{ValueColumn: "Leads"})
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	table, err := timeseries.Join(revenue, leads)
	if err != nil {
		return nil, err
	}
	return table.WithLaggedLeads(opts.leadLag), nil
}

func explore(opts *options, table *timeseries.Table, out *output) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("Exploratory statistics")

	invoice := table.Invoice()
	leads := table.Leads()

	corrLeads, err := stats.Pearson(invoice, leads)
	if err != nil {
		return err
	}
	corrLagged, err := stats.Pearson(invoice, table.LaggedLeads())
	if err != nil {
		return err
	}
	fmt.Printf("  corr(invoice, leads)        = %+.4f\n", corrLeads)
	fmt.Printf("  corr(invoice, lagged leads) = %+.4f\n", corrLagged)

	ccf, err := stats.CrossCorrelation(leads, invoice, opts.ccfWindow)
	if err != nil {
		return err
	}
	fmt.Printf("  CCF peak %.4f at lag %d", ccf.PeakValue, ccf.PeakLag)
	if ccf.PeakLag < 0 {
		fmt.Printf(" (leads lead revenue by %d months)", -ccf.PeakLag)
	}
	fmt.Println()

	sd, err := stats.Periodogram(invoice, opts.spectrumSpan)
	if err != nil {
		return err
	}
	freq, period, power := sd.Dominant()
	fmt.Printf("  spectral peak %.1f dB at f=%.4f (period %.1f months)\n", power, freq, period)
	if period > float64(invoice.Len())/3 {
		fmt.Println("  note: peak period is close to the series length; this reflects")
		fmt.Println("  the trend component, not genuine seasonality")
	}

	out.Exploratory = exploratoryOutput{
		CorrLeads:       corrLeads,
		CorrLaggedLeads: corrLagged,
		CCFPeakLag:      ccf.PeakLag,
		CCFPeakValue:    ccf.PeakValue,
		DominantFreq:    freq,
		DominantPeriod:  period,
	}
	return nil
}

func backtest(opts *options, table *timeseries.Table, out *output) (*evaluate.Ranking, *nnet.Config, error) {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("Backtest over the last %d months\n", opts.horizon)

	train, test := table.Split(opts.horizon)

	bar := progressbar.Default(int64(opts.ensembleReps), "training ensemble")
	ensembleCfg := nnet.DefaultConfig()
	ensembleCfg.Reps = opts.ensembleReps
	ensembleCfg.LagDepth = opts.ensembleLags
	ensembleCfg.Seed = opts.seed
	ensembleCfg.Progress = func() { bar.Add(1) }

	trendCfg := trend.DefaultConfig()
	trendCfg.MaxAROrder = opts.maxAROrder

	varCfg := vecar.DefaultConfig()
	varCfg.LagMax = opts.varLagMax

	diagCfg := evaluate.DefaultDiagnosticsConfig()
	diagCfg.Alpha = opts.alpha

	trendModel := trend.New(trendCfg)
	comparison := &evaluate.Comparison{
		MostLikely:  trendModel,
		Pessimistic: vecar.New(varCfg),
		Optimistic:  nnet.New(ensembleCfg),
		Diagnostics: diagCfg,
	}

	ranking, err := comparison.Run(train, test)
	if err != nil {
		return nil, nil, err
	}
	fmt.Println()

	fmt.Printf("  %-20s %-16s %-12s %s\n", "model", "ASE", "white noise", "Ljung-Box p-values")
	for _, score := range ranking.Scores {
		mo := modelOutput{Model: score.Model}
		if score.Err != nil {
			fmt.Printf("  %-20s failed: %v\n", score.Model, score.Err)
			mo.Error = score.Err.Error()
			out.Backtest = append(out.Backtest, mo)
			continue
		}
		verdict := "-"
		var pvals []float64
		if score.Diagnostics != nil && score.Diagnostics.WhiteNoise != nil {
			wn := score.Diagnostics.WhiteNoise
			verdict = fmt.Sprintf("%v", wn.WhiteNoise)
			if wn.Borderline {
				verdict += " (borderline)"
			}
			for _, lb := range wn.Tests {
				pvals = append(pvals, lb.PValue)
			}
			mo.WhiteNoise = wn.WhiteNoise
			mo.Borderline = wn.Borderline
		}
		fmt.Printf("  %-20s %-16.4g %-12s %v\n", score.Model, score.ASE, verdict, pvals)
		mo.ASE = score.ASE
		mo.Forecasts = score.Forecasts
		mo.PValues = pvals
		out.Backtest = append(out.Backtest, mo)
	}

	if s := trendModel.Summary(); s != nil {
		fmt.Printf("  trend slope: %.2f per month (AR order %d)\n", s.Slope, s.AROrder)
	}
	return ranking, ensembleCfg, nil
}

// produce re-fits on the full series for the production horizon. The trend
// and VAR models need nothing beyond the history; the ensemble joins only
// when future lead counts are supplied.
func produce(opts *options, table *timeseries.Table, ranking *evaluate.Ranking, ensembleCfg *nnet.Config, out *output) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("Production forecast, next %d months\n", opts.horizon)
	if best := ranking.Best(); best != nil {
		fmt.Printf("  backtest winner: %s (ASE %.4g)\n", best.Model, best.ASE)
	}

	trendModel := trend.New(&trend.Config{MaxAROrder: opts.maxAROrder, MinObservations: 10})
	if err := trendModel.Fit(table); err != nil {
		return err
	}
	trendFc, err := trendModel.Forecast(opts.horizon, nil)
	if err != nil {
		return err
	}
	out.Production["trend-plus-noise"] = trendFc
	out.TrendSlope = trendModel.Slope
	fmt.Printf("  trend-plus-noise slope: %.2f per month\n", trendModel.Slope)

	varModel := vecar.New(&vecar.Config{LagMax: opts.varLagMax})
	if err := varModel.Fit(table); err == nil {
		if fc, err := varModel.Forecast(opts.horizon, nil); err == nil {
			out.Production["var-leads"] = fc
		}
	}

	if opts.futureLeadsCSV != "" {
		future, err := futureTable(opts, table)
		if err != nil {
			return err
		}
		ensembleCfg.Progress = nil
		ensemble := nnet.New(ensembleCfg)
		if err := ensemble.Fit(table); err == nil {
			if fc, err := ensemble.Forecast(opts.horizon, future); err == nil {
				out.Production["mlp-ensemble"] = fc
			}
		}
	}

	months := table.FutureMonths(opts.horizon)
	fmt.Printf("  %-10s %s\n", "month", "trend-plus-noise")
	for i, mv := range months {
		fmt.Printf("  %d-%02d    %14.2f\n", mv.Year, mv.Month, trendFc[i])
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.outJSON, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Results written to %s\n", opts.outJSON)
	return nil
}

// futureTable builds the production horizon's exogenous rows from the known
// future leads file.
func futureTable(opts *options, table *timeseries.Table) (*timeseries.Table, error) {
	futureLeads, err := timeseries.LoadMonthlyCSV(opts.futureLeadsCSV, &timeseries.CSVOptions{ValueColumn: "Leads"})
	if err != nil {
		return nil, fmt.Errorf("load future leads: %w", err)
	}

	months := table.FutureMonths(opts.horizon)
	byMonth := make(map[[2]int]float64, len(futureLeads))
	for _, lv := range futureLeads {
		byMonth[[2]int{lv.Year, lv.Month}] = lv.Value
	}

	rows := make([]timeseries.Observation, 0, len(months))
	for _, mv := range months {
		lead, ok := byMonth[[2]int{mv.Year, mv.Month}]
		if !ok {
			return nil, fmt.Errorf("future leads missing %d-%02d", mv.Year, mv.Month)
		}
		rows = append(rows, timeseries.Observation{Year: mv.Year, Month: mv.Month, Leads: lead})
	}
	return timeseries.NewTable(rows), nil
}
