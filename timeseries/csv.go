package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for loading a monthly source table.
type CSVOptions struct {
	YearColumn  string // Column name for the year (default: "Year")
	MonthColumn string // Column name for the month number (default: "Month_Nbr")
	ValueColumn string // Column name for the value (required)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		YearColumn:  "Year",
		MonthColumn: "Month_Nbr",
		Delimiter:   ',',
	}
}

// LoadMonthlyCSV loads a {Year, Month_Nbr, value} table from a CSV file.
func LoadMonthlyCSV(filename string, opts *CSVOptions) ([]MonthlyValue, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadMonthlyCSVFromReader(file, opts)
}

// LoadMonthlyCSVFromReader loads a monthly table from an io.Reader.
func LoadMonthlyCSVFromReader(r io.Reader, opts *CSVOptions) ([]MonthlyValue, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	if opts.ValueColumn == "" {
		return nil, errors.New("value column name is required")
	}
	if opts.YearColumn == "" {
		opts.YearColumn = "Year"
	}
	if opts.MonthColumn == "" {
		opts.MonthColumn = "Month_Nbr"
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	yearIdx, monthIdx, valueIdx := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.Trim(h, "\"")) {
		case opts.YearColumn:
			yearIdx = i
		case opts.MonthColumn:
			monthIdx = i
		case opts.ValueColumn:
			valueIdx = i
		}
	}
	if yearIdx == -1 || monthIdx == -1 || valueIdx == -1 {
		return nil, fmt.Errorf("columns %q, %q, %q not all found in header %v",
			opts.YearColumn, opts.MonthColumn, opts.ValueColumn, header)
	}

	var values []MonthlyValue
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		// Skip blank lines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[yearIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse year %q: %w", row, record[yearIdx], err)
		}
		month, err := strconv.Atoi(strings.TrimSpace(record[monthIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse month %q: %w", row, record[monthIdx], err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s %q: %w", row, opts.ValueColumn, record[valueIdx], err)
		}

		values = append(values, MonthlyValue{Year: year, Month: month, Value: value})
	}

	if len(values) == 0 {
		return nil, errors.New("no data rows found in CSV")
	}
	return values, nil
}
