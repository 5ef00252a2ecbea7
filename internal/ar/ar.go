// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package ar fits univariate autoregressions
// y_t = c + d*trend_t + a_1 y_{t-1} + ... + a_p y_{t-p} + e_t by OLS, with the same
// deterministic terms as varmodel. They are the baseline the joint VAR is compared against.
package ar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"bivariate-granger/internal/regress"
	"bivariate-granger/internal/varmodel"
)

// Model holds a fitted AR(p).
type Model struct {
	Lags          int
	Deterministic varmodel.Deterministic

	// Intercept and trend slope (0 when not in the model), lag coefficients a_1..a_p
	Intercept float64
	Trend     float64
	Coef      []float64

	// Fitted values and residuals (actual - fitted) for t = p..T-1
	Fitted []float64
	Resid  []float64

	// Residual variance SSR / (n - m)
	Sigma2 float64

	NObs     int
	LogLik   float64
	AIC, BIC float64
}

// Fit estimates an AR(lags) model on y. time is the index of y used by the trend term,
// nil for positions 0,1,2,...
func Fit(y, time []float64, lags int, det varmodel.Deterministic) (*Model, error) {
	T := len(y)
	p := lags
	if p <= 0 {
		return nil, fmt.Errorf("lags must be > 0")
	}

	if time != nil && len(time) != T {
		return nil, fmt.Errorf("time index has %d entries for %d observations", len(time), T)
	}

	detCols := det.Columns()
	m := detCols + p
	if T-p <= m {
		return nil, fmt.Errorf("need at least %d observations for AR(%d), got %d", p+m+1, p, T)
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series contains non-finite values")
		}
	}

	// Rows t = p..T-1: [1, trend_t, y_{t-1}, ..., y_{t-p}]
	Treg := T - p
	X := mat.NewDense(Treg, m, nil)
	Y := mat.NewDense(Treg, 1, nil)
	for t := 0; t < Treg; t++ {
		col := 0
		if det.HasConst() {
			X.Set(t, col, 1.0)
			col++
		}
		if det.HasTrend() {
			X.Set(t, col, varmodel.TrendIndex(time, t+p))
			col++
		}
		for j := 1; j <= p; j++ {
			X.Set(t, col, y[t+p-j])
			col++
		}
		Y.Set(t, 0, y[t+p])
	}

	res, err := regress.OLS(X, Y)
	if err != nil {
		return nil, fmt.Errorf("AR(%d) OLS: %w", p, err)
	}

	model := &Model{
		Lags:          p,
		Deterministic: det,
		Coef:          make([]float64, p),
		Fitted:        mat.Col(nil, 0, res.Fitted),
		Resid:         mat.Col(nil, 0, res.Resid),
		Sigma2:        res.SSR(0) / float64(res.DF()),
		NObs:          Treg,
		LogLik:        res.LogLikelihood(0),
	}
	col := 0
	if det.HasConst() {
		model.Intercept = res.B.At(col, 0)
		col++
	}
	if det.HasTrend() {
		model.Trend = res.B.At(col, 0)
	}
	for j := 0; j < p; j++ {
		model.Coef[j] = res.B.At(detCols+j, 0)
	}

	// the variance counts as one more parameter
	k := float64(m + 1)
	model.AIC = -2*model.LogLik + 2*k
	model.BIC = -2*model.LogLik + math.Log(float64(Treg))*k

	return model, nil
}
