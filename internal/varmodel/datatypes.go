// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package varmodel fits reduced form vector autoregressions by OLS and runs Granger
// causality F-tests on the fitted model.
package varmodel

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// What kind of constant to include in the model
type Deterministic int

// Deterministic Constants for VAR
const (
	DetNone Deterministic = iota
	DetConst
	DetTrend
	DetConstTrend
)

// String returns the config name of the deterministic term.
func (d Deterministic) String() string {
	switch d {
	case DetNone:
		return "none"
	case DetConst:
		return "const"
	case DetTrend:
		return "trend"
	case DetConstTrend:
		return "const+trend"
	}
	return fmt.Sprintf("Deterministic(%d)", int(d))
}

// ParseDeterministic maps a config name ("none", "const", "trend", "const+trend") to a
// Deterministic value.
func ParseDeterministic(s string) (Deterministic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return DetNone, nil
	case "", "const", "c":
		return DetConst, nil
	case "trend", "t":
		return DetTrend, nil
	case "const+trend", "ct":
		return DetConstTrend, nil
	}
	return DetNone, fmt.Errorf("unknown deterministic term %q", s)
}

// HasConst and HasTrend report which regressors the term adds, constant first.
func (d Deterministic) HasConst() bool { return d == DetConst || d == DetConstTrend }
func (d Deterministic) HasTrend() bool { return d == DetTrend || d == DetConstTrend }

// TrendIndex is the trend regressor of row i: time[i] - time[0] + 1, so 1 at the first
// observation and gaps in the time index are kept. Without a time index it is i + 1.
func TrendIndex(time []float64, i int) float64 {
	if len(time) <= i {
		return float64(i + 1)
	}
	return time[i] - time[0] + 1
}

// Columns returns how many deterministic regressors the term adds.
func (d Deterministic) Columns() int {
	n := 0
	if d.HasConst() {
		n++
	}
	if d.HasTrend() {
		n++
	}
	return n
}

// What kind of model to fit
type ModelSpec struct {
	// How many lags?
	Lags int
	// What kind of constant to include
	Deterministic Deterministic
}

// Model is a VAR(p) fitted by OLS together with its in-sample fit.
type Model struct {
	Spec ModelSpec

	// Variable names, one per equation
	VarNames []string

	// Coefficient matrices for each lag A_1, A_2, etc (each KxK matrix)
	A []*mat.Dense

	// Deterministic Terms: e.g. constant (Kx1) and trend (Kx1) if included
	C *mat.Dense

	// Covariance of residuals (KxK), scaled by the residual degrees of freedom
	SigmaU *mat.SymDense

	// In-sample fitted values and residuals (actual - fitted), (T-p) x K.
	// Row i belongs to row i+p of the input panel.
	Fitted *mat.Dense
	Resid  *mat.Dense

	// Time index of the fitted rows
	Time []float64

	// Number of equations, observations used, residual degrees of freedom
	K, NObs, DFResid int

	// Information criteria
	AIC, BIC float64

	// data, time index and response kept for the restricted Granger regressions
	y    *mat.Dense
	time []float64
	yReg *mat.Dense
}

// GrangerCausalityResult holds the result of a Granger causality test
type GrangerCausalityResult struct {
	CauseVar    string  // Variable being tested as the cause
	EffectVar   string  // Variable being tested as the effect
	FStatistic  float64 // F-statistic value
	PValue      float64 // P-value
	DF1, DF2    float64 // Numerator and denominator degrees of freedom
	Lags        int     // Number of lags used
	Significant bool    // True if p-value <= 0.05
}
