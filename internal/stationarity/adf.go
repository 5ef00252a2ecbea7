// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package stationarity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"bivariate-granger/internal/regress"
)

// MacKinnon (1994) response surface for the constant-only regression, one series.
const (
	tauMaxC  = 2.74
	tauMinC  = -18.83
	tauStarC = -1.61
)

var (
	tauSmallPC = []float64{2.1659, 1.4412, 0.038269}
	tauLargePC = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

// MacKinnon (2010) finite-sample critical value coefficients, constant only, one series.
var tauC2010 = map[string][]float64{
	"1%":  {-3.43035, -6.5393, -16.786, -79.433},
	"5%":  {-2.86154, -2.8903, -4.234, -40.040},
	"10%": {-2.56677, -1.5384, -2.809, 0},
}

// ADF runs the Augmented Dickey-Fuller test with a constant:
// dy_t = c + b*y_{t-1} + sum_i g_i*dy_{t-i} + e_t, testing b = 0.
// The number of lagged differences is chosen by AIC over 0..ceil(12*(n/100)^(1/4)).
func ADF(x []float64) (*Report, error) {
	n := len(x)
	const ntrend = 1

	maxLag := int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	if limit := n/2 - ntrend - 1; limit < maxLag {
		maxLag = limit
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("need at least 4 observations, got %d", n)
	}

	dx := make([]float64, n-1)
	for i := range dx {
		dx[i] = x[i+1] - x[i]
	}

	// 1. Lag search on a common sample so AIC values are comparable
	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		X, y := adfDesign(x, dx, maxLag, lag)
		res, err := regress.OLS(X, y)
		if err != nil {
			continue
		}
		if aic := res.AIC(0); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	// 2. Refit with the chosen lag on the longest sample it allows
	X, y := adfDesign(x, dx, bestLag, bestLag)
	res, err := regress.OLS(X, y)
	if err != nil {
		return nil, fmt.Errorf("ADF regression: %w", err)
	}
	se, err := res.StdErrors(0)
	if err != nil {
		return nil, fmt.Errorf("ADF regression: %w", err)
	}

	stat := res.B.At(0, 0) / se[0]
	if math.IsNaN(stat) || math.IsInf(stat, 0) {
		return nil, fmt.Errorf("ADF statistic is not finite, series may be constant")
	}

	nobs := res.N
	pValue := mackinnonP(stat)

	return &Report{
		Method:         ADFTest,
		Statistic:      stat,
		PValue:         pValue,
		Lags:           bestLag,
		NObs:           nobs,
		CriticalValues: mackinnonCrit(nobs),
		Stationary:     pValue <= Threshold,
	}, nil
}

// adfDesign builds the ADF regression with `lag` lagged differences on the sample
// that starts after `start` differences: rows t = start..n-2,
// columns [y_t, dy_{t-1}, ..., dy_{t-lag}, 1], response dy_t.
func adfDesign(x, dx []float64, start, lag int) (*mat.Dense, *mat.Dense) {
	nobs := len(dx) - start
	X := mat.NewDense(nobs, lag+2, nil)
	y := mat.NewDense(nobs, 1, nil)
	for r := 0; r < nobs; r++ {
		t := r + start
		X.Set(r, 0, x[t])
		for j := 1; j <= lag; j++ {
			X.Set(r, j, dx[t-j])
		}
		X.Set(r, lag+1, 1)
		y.Set(r, 0, dx[t])
	}
	return X, y
}

// mackinnonP approximates the ADF p-value, Phi(poly(stat)).
func mackinnonP(stat float64) float64 {
	if stat > tauMaxC {
		return 1
	}
	if stat < tauMinC {
		return 0
	}
	coef := tauLargePC
	if stat <= tauStarC {
		coef = tauSmallPC
	}
	return distuv.UnitNormal.CDF(polyval(coef, stat))
}

// mackinnonCrit returns b0 + b1/n + b2/n^2 + b3/n^3 per level.
func mackinnonCrit(nobs int) map[string]float64 {
	out := make(map[string]float64, len(tauC2010))
	for level, b := range tauC2010 {
		out[level] = polyval(b, 1/float64(nobs))
	}
	return out
}

// polyval evaluates c[0] + c[1] x + c[2] x^2 + ...
func polyval(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
