// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions controls how a CSV file is turned into a Panel.
type CSVOptions struct {
	// Name of the column holding the time index. Empty means rows are numbered 0,1,2,...
	IndexColumn string
	// Cells treated as missing values (compared case-insensitively after trimming)
	MissingValues []string
}

// DefaultCSVOptions returns options with the usual missing value markers.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{MissingValues: []string{"", "na", "nan", "null"}}
}

// LoadCSV loads a CSV file into a Panel.
//
//   - The first row is a header with variable names
//   - All remaining rows are numeric values
//   - Missing cells become NaN
func LoadCSV(path string, opts CSVOptions) (*Panel, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadCSV reads a Panel from CSV data.
func ReadCSV(in io.Reader, opts CSVOptions) (*Panel, error) {
	// 2. Make CSV reader
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true

	// 3. Read header row
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	indexCol := -1
	if opts.IndexColumn != "" {
		for j, h := range header {
			if h == opts.IndexColumn {
				indexCol = j
			}
		}
		if indexCol < 0 {
			return nil, fmt.Errorf("index column %q not in header", opts.IndexColumn)
		}
	}

	missing := make(map[string]bool, len(opts.MissingValues))
	for _, m := range opts.MissingValues {
		missing[strings.ToLower(strings.TrimSpace(m))] = true
	}

	var (
		names   []string
		columns [][]float64
		times   []float64
		row     int
	)
	for j, h := range header {
		if j == indexCol {
			continue
		}
		names = append(names, h)
	}
	columns = make([][]float64, len(names))

	// 4. Read each data row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}

		// Skip completely empty lines
		if len(record) == 1 && record[0] == "" {
			continue
		}

		if len(record) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", row+2, len(header), len(record))
		}

		col := 0
		for j, s := range record {
			s = strings.TrimSpace(s)
			if j == indexCol {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("parse index at row %d (%q): %w", row+2, s, err)
				}
				times = append(times, v)
				continue
			}

			v := math.NaN()
			if !missing[strings.ToLower(s)] {
				v, err = strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
				}
			}
			columns[col] = append(columns[col], v)
			col++
		}

		if indexCol < 0 {
			times = append(times, float64(row))
		}
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("time index not increasing at row %d", i+2)
		}
	}

	// 5. Build Panel
	return New(names, times, columns)
}
