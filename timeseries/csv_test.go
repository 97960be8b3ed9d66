package timeseries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMonthlyCSVFromReader(t *testing.T) {
	csv := `Year,Month_Nbr,Invoice_Amount
2009,10,123456.78
2009,11,130000.00
2009,12,141200.50
`
	values, err := LoadMonthlyCSVFromReader(strings.NewReader(csv),
		&CSVOptions{ValueColumn: "Invoice_Amount"})
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, MonthlyValue{Year: 2009, Month: 10, Value: 123456.78}, values[0])
	assert.Equal(t, MonthlyValue{Year: 2009, Month: 12, Value: 141200.50}, values[2])
}

func TestLoadMonthlyCSVColumnOrderAndQuotes(t *testing.T) {
	csv := `"Leads","Month_Nbr","Year"
250, 3, 2011
260, 4, 2011
`
	values, err := LoadMonthlyCSVFromReader(strings.NewReader(csv),
		&CSVOptions{ValueColumn: "Leads"})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, MonthlyValue{Year: 2011, Month: 3, Value: 250}, values[0])
}

func TestLoadMonthlyCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		opts *CSVOptions
	}{
		{
			name: "missing value column",
			csv:  "Year,Month_Nbr,Other\n2011,1,5\n",
			opts: &CSVOptions{ValueColumn: "Leads"},
		},
		{
			name: "no value column configured",
			csv:  "Year,Month_Nbr,Leads\n2011,1,5\n",
			opts: &CSVOptions{},
		},
		{
			name: "unparseable value",
			csv:  "Year,Month_Nbr,Leads\n2011,1,abc\n",
			opts: &CSVOptions{ValueColumn: "Leads"},
		},
		{
			name: "header only",
			csv:  "Year,Month_Nbr,Leads\n",
			opts: &CSVOptions{ValueColumn: "Leads"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMonthlyCSVFromReader(strings.NewReader(tt.csv), tt.opts)
			assert.Error(t, err)
		})
	}
}
