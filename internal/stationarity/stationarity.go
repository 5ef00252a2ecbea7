// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package stationarity runs unit-root diagnostics on single series.
//
// The Augmented Dickey-Fuller test (null: unit root) is the default. KPSS (null: level
// stationarity) is available as a cross-check. Both report the statistic, p-value,
// lag count, observation count and critical values at 1%, 5% and 10%.
package stationarity

import (
	"fmt"
	"strings"

	"bivariate-granger/internal/timeseries"
)

// Threshold is the significance level behind the stationarity verdict.
const Threshold = 0.05

// Method selects the unit-root test.
type Method string

const (
	ADFTest  Method = "adf"
	KPSSTest Method = "kpss"
)

// ParseMethod maps a config value to a Method; empty means ADF.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", ADFTest:
		return ADFTest, nil
	case KPSSTest:
		return KPSSTest, nil
	}
	return "", fmt.Errorf("unknown stationarity test %q", s)
}

// Report is the full outcome of one test.
type Report struct {
	Method         Method
	Label          string
	Statistic      float64
	PValue         float64
	Lags           int                // lags used by the test regression
	NObs           int                // observations in the test regression
	CriticalValues map[string]float64 // keyed "1%", "5%", "10%"
	Stationary     bool
}

// Check drops missing values from series and runs the chosen test.
// For ADF the series is stationary iff p <= 0.05; for KPSS iff p >= 0.05.
func Check(series []float64, label string, method Method) (bool, *Report, error) {
	x := timeseries.DropNaN(series)

	var (
		rep *Report
		err error
	)
	switch method {
	case "", ADFTest:
		rep, err = ADF(x)
	case KPSSTest:
		rep, err = KPSS(x)
	default:
		return false, nil, fmt.Errorf("unknown stationarity test %q", method)
	}
	if err != nil {
		return false, nil, fmt.Errorf("%s test on %s: %w", method, label, err)
	}

	rep.Label = label
	return rep.Stationary, rep, nil
}
