// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package report writes the outputs of a causality run as CSV and plain-text tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"bivariate-granger/internal/causality"
	"bivariate-granger/internal/stationarity"
)

// RecordsHeader is the header row of the results CSV.
var RecordsHeader = []string{"X", "Y", "Error std", "Correlation", "GC p-value", "GC ratio"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRecords writes the results table as CSV.
// Columns: X (predicted), Y (conditioning, "-" for the AR baseline), Error std,
// Correlation, GC p-value, GC ratio (0 when not significant)
func WriteRecords(w io.Writer, records []causality.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(RecordsHeader); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Source,
			r.Target,
			formatFloat(r.ResidualStd),
			formatFloat(r.Correlation),
			formatFloat(r.PValue),
			formatFloat(r.Ratio),
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRatioMatrix writes the ratio matrix as CSV, causes as rows and effects as
// columns, with the variable names as header and first column.
func WriteRatioMatrix(w io.Writer, m *causality.RatioMatrix) error {
	if m == nil {
		return fmt.Errorf("nil ratio matrix")
	}
	writer := csv.NewWriter(w)

	header := append([]string{""}, m.Names...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, cause := range m.Names {
		rec := make([]string, 0, len(m.Names)+1)
		rec = append(rec, cause)
		for j := range m.Names {
			rec = append(rec, formatFloat(m.Values.At(i, j)))
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRecordsCSV writes the results table to path.
func WriteRecordsCSV(path string, records []causality.Record) error {
	return writeFile(path, func(w io.Writer) error { return WriteRecords(w, records) })
}

// WriteRatioMatrixCSV writes the ratio matrix to path.
func WriteRatioMatrixCSV(path string, m *causality.RatioMatrix) error {
	return writeFile(path, func(w io.Writer) error { return WriteRatioMatrix(w, m) })
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// PrintRecords prints the results table.
func PrintRecords(w io.Writer, records []causality.Record) {
	fmt.Fprintln(w, "\n=== Granger Causality Results ===")
	fmt.Fprintf(w, "%-16s | %-16s | %11s | %11s | %10s | %9s\n",
		"X", "Y", "Error std", "Correlation", "GC p-value", "GC ratio")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------")
	for _, r := range records {
		fmt.Fprintf(w, "%-16s | %-16s | %11.6f | %11.6f | %10.6f | %9.6f\n",
			r.Source, r.Target, r.ResidualStd, r.Correlation, r.PValue, r.Ratio)
	}
	fmt.Fprintln(w)
}

// PrintRatioMatrix prints the ratio matrix, causes as rows.
func PrintRatioMatrix(w io.Writer, m *causality.RatioMatrix, alpha float64) {
	fmt.Fprintln(w, "\n=== Granger Causality Ratio (p-value filtered) ===")
	fmt.Fprintf(w, "Rows cause columns; ratios with p > %g are 0\n\n", alpha)

	fmt.Fprintf(w, "%-12s", "")
	for _, name := range m.Names {
		fmt.Fprintf(w, "%12s", name)
	}
	fmt.Fprintln(w)

	for i, cause := range m.Names {
		fmt.Fprintf(w, "%-12s", cause)
		for j := range m.Names {
			fmt.Fprintf(w, "%12.6f", m.Values.At(i, j))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// PrintStationarity prints one block per variable, in name order. Variables whose
// test could not run are listed without statistics.
func PrintStationarity(w io.Writer, verdicts map[string]bool, reports map[string]*stationarity.Report) {
	names := make([]string, 0, len(verdicts))
	for name := range verdicts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\n=== Stationarity of each time series ===")
	for _, name := range names {
		rep := reports[name]
		if rep == nil {
			fmt.Fprintf(w, "%s: test could not run\n\n", name)
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", name, rep.Method)
		fmt.Fprintf(w, "  test statistic    %12.6f\n", rep.Statistic)
		fmt.Fprintf(w, "  p-value           %12.6f\n", rep.PValue)
		fmt.Fprintf(w, "  # lags used       %12d\n", rep.Lags)
		fmt.Fprintf(w, "  # observations    %12d\n", rep.NObs)
		for _, level := range []string{"1%", "5%", "10%"} {
			if v, ok := rep.CriticalValues[level]; ok {
				fmt.Fprintf(w, "  critical value (%s)%*s%12.6f\n", level, 4-len(level), "", v)
			}
		}
		conclusion := "non-stationary"
		if verdicts[name] {
			conclusion = "stationary"
		}
		fmt.Fprintf(w, "  conclusion        %12s\n\n", conclusion)
	}
}
