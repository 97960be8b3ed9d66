// Package timeseries provides the data structures the forecasting pipeline
// operates on: a simple value series and the merged monthly observation table.
//
// # Table
//
// The working table is built by joining the two source tables on their
// (year, month) key and deriving the lagged-leads column:
//
//	revenue, _ := timeseries.LoadMonthlyCSV("revenue.csv", &timeseries.CSVOptions{ValueColumn: "Invoice_Amount"})
//	leads, _ := timeseries.LoadMonthlyCSV("leads.csv", &timeseries.CSVOptions{ValueColumn: "Leads"})
//
//	table, err := timeseries.Join(revenue, leads)
//	table = table.WithLaggedLeads(2)
//
// Join enforces the table invariant: every calendar month between the first
// and last revenue observation is present exactly once, and every revenue
// month has a matching leads value. Violations surface as ErrAlignment and
// abort the run; they indicate a broken extract, not a modeling condition.
//
// # Train/test split
//
// Split produces the fixed partition shared by every model under comparison:
//
//	train, test := table.Split(12)
//
// The last 12 rows form the held-out evaluation window; all models are
// scored against the same boundary so their errors are comparable.
//
// # Missing values
//
// The lagged-leads column is undefined for the first lag-depth rows and is
// represented as NaN. Series operations that aggregate (Mean, Variance)
// skip NaN; consumers that need a dense series use DropNaN.
package timeseries
