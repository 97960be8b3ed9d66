package timeseries

import (
	"errors"
	"fmt"
	"math"
)

// ErrAlignment is returned when the revenue and leads tables cannot be
// aligned on (year, month): a month is missing from one source, the date
// ranges do not overlap, or a series has a gap.
var ErrAlignment = errors.New("revenue and leads tables are not aligned")

// MonthlyValue is one (year, month) keyed value from a source table.
type MonthlyValue struct {
	Year  int
	Month int // calendar month number, 1-12
	Value float64
}

// Observation is one calendar month of the merged working table.
// LaggedLeads is NaN for rows where the lag reaches before the series start.
type Observation struct {
	Year        int
	Month       int
	Invoice     float64
	Leads       float64
	LaggedLeads float64
}

// Table is an ordered, gap-free sequence of monthly observations indexed by
// sequential month number starting at 1.
type Table struct {
	rows []Observation
}

// monthKey collapses (year, month) to a single comparable index.
func monthKey(year, month int) int {
	return year*12 + (month - 1)
}

// Join aligns the revenue and leads tables on (year, month), truncating the
// leads series to the revenue series' date range. Both inputs must be sorted
// ascending. A gap in the revenue months or a revenue month missing from the
// leads table is an alignment error.
func Join(revenue, leads []MonthlyValue) (*Table, error) {
	if len(revenue) == 0 || len(leads) == 0 {
		return nil, fmt.Errorf("%w: empty source table", ErrAlignment)
	}

	leadByMonth := make(map[int]float64, len(leads))
	for _, lv := range leads {
		if lv.Month < 1 || lv.Month > 12 {
			return nil, fmt.Errorf("%w: invalid month number %d in leads", ErrAlignment, lv.Month)
		}
		leadByMonth[monthKey(lv.Year, lv.Month)] = lv.Value
	}

	rows := make([]Observation, 0, len(revenue))
	prevKey := 0
	for i, rv := range revenue {
		if rv.Month < 1 || rv.Month > 12 {
			return nil, fmt.Errorf("%w: invalid month number %d in revenue", ErrAlignment, rv.Month)
		}
		key := monthKey(rv.Year, rv.Month)
		if i > 0 && key != prevKey+1 {
			return nil, fmt.Errorf("%w: gap in revenue series at %d-%02d", ErrAlignment, rv.Year, rv.Month)
		}
		prevKey = key

		lead, ok := leadByMonth[key]
		if !ok {
			return nil, fmt.Errorf("%w: no leads value for %d-%02d", ErrAlignment, rv.Year, rv.Month)
		}
		rows = append(rows, Observation{
			Year:        rv.Year,
			Month:       rv.Month,
			Invoice:     rv.Value,
			Leads:       lead,
			LaggedLeads: math.NaN(),
		})
	}

	return &Table{rows: rows}, nil
}

// NewTable builds a table directly from observations. Used by tests and by
// Split; Join is the loader-facing constructor.
func NewTable(rows []Observation) *Table {
	copied := make([]Observation, len(rows))
	copy(copied, rows)
	return &Table{rows: copied}
}

// Len returns the number of monthly observations.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th observation.
func (t *Table) Row(i int) Observation {
	return t.rows[i]
}

// WithLaggedLeads returns a copy of the table with the lagged-leads column
// set to the leads value from k periods prior. The first k rows carry NaN.
func (t *Table) WithLaggedLeads(k int) *Table {
	rows := make([]Observation, len(t.rows))
	copy(rows, t.rows)
	for i := range rows {
		if i < k {
			rows[i].LaggedLeads = math.NaN()
			continue
		}
		rows[i].LaggedLeads = t.rows[i-k].Leads
	}
	return &Table{rows: rows}
}

// Split partitions the table into a training window of all rows except the
// last holdout rows, and the held-out evaluation window. The boundary is the
// same for every model scored against the split.
func (t *Table) Split(holdout int) (train, test *Table) {
	if holdout <= 0 || holdout >= len(t.rows) {
		return &Table{rows: t.rows}, &Table{}
	}
	cut := len(t.rows) - holdout
	return &Table{rows: t.rows[:cut]}, &Table{rows: t.rows[cut:]}
}

// Slice returns the rows in [start, end) as a new table.
func (t *Table) Slice(start, end int) *Table {
	if start < 0 {
		start = 0
	}
	if end > len(t.rows) {
		end = len(t.rows)
	}
	if start >= end {
		return &Table{}
	}
	return &Table{rows: t.rows[start:end]}
}

// Invoice returns the invoice amount column as a series.
func (t *Table) Invoice() *Series {
	return t.column("invoice", func(o Observation) float64 { return o.Invoice })
}

// Leads returns the leads column as a series.
func (t *Table) Leads() *Series {
	return t.column("leads", func(o Observation) float64 { return o.Leads })
}

// LaggedLeads returns the lagged-leads column as a series. Rows before the
// lag horizon are NaN.
func (t *Table) LaggedLeads() *Series {
	return t.column("lagged_leads", func(o Observation) float64 { return o.LaggedLeads })
}

func (t *Table) column(name string, get func(Observation) float64) *Series {
	values := make([]float64, len(t.rows))
	for i, row := range t.rows {
		values[i] = get(row)
	}
	return &Series{Values: values, Name: name}
}

// FutureMonths extends the table's calendar by n months past its end,
// returning (year, month) pairs for the forecast horizon.
func (t *Table) FutureMonths(n int) []MonthlyValue {
	if len(t.rows) == 0 || n <= 0 {
		return nil
	}
	last := t.rows[len(t.rows)-1]
	key := monthKey(last.Year, last.Month)
	out := make([]MonthlyValue, n)
	for i := 0; i < n; i++ {
		key++
		out[i] = MonthlyValue{Year: key / 12, Month: key%12 + 1}
	}
	return out
}
