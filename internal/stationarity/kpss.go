// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package stationarity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Kwiatkowski et al. (1992) table for level stationarity, ascending statistic.
var (
	kpssCrit   = []float64{0.347, 0.463, 0.574, 0.739}
	kpssPVals  = []float64{0.10, 0.05, 0.025, 0.01}
	kpssLevels = map[string]float64{"10%": 0.347, "5%": 0.463, "1%": 0.739}
)

// KPSS runs the level-stationarity KPSS test with the lag rule ceil(12*(n/100)^(1/4)).
// The p-value is interpolated in the table and clipped to [0.01, 0.10].
func KPSS(x []float64) (*Report, error) {
	n := len(x)
	if n < 3 {
		return nil, fmt.Errorf("need at least 3 observations, got %d", n)
	}

	lags := int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	if lags > n-1 {
		lags = n - 1
	}

	mean := stat.Mean(x, nil)
	resid := make([]float64, n)
	for i, v := range x {
		resid[i] = v - mean
	}

	// eta = sum of squared partial sums / n^2
	cum := make([]float64, n)
	floats.CumSum(cum, resid)
	eta := floats.Dot(cum, cum) / float64(n*n)

	// Newey-West long-run variance with Bartlett weights
	s2 := floats.Dot(resid, resid)
	for l := 1; l <= lags; l++ {
		w := 1 - float64(l)/float64(lags+1)
		s2 += 2 * w * floats.Dot(resid[l:], resid[:n-l])
	}
	s2 /= float64(n)
	if s2 <= 0 {
		return nil, fmt.Errorf("long-run variance is not positive, series may be constant")
	}

	statistic := eta / s2
	pValue := interpolate(statistic, kpssCrit, kpssPVals)

	crit := make(map[string]float64, len(kpssLevels))
	for k, v := range kpssLevels {
		crit[k] = v
	}

	return &Report{
		Method:         KPSSTest,
		Statistic:      statistic,
		PValue:         pValue,
		Lags:           lags,
		NObs:           n,
		CriticalValues: crit,
		Stationary:     pValue >= Threshold,
	}, nil
}

// interpolate is piecewise linear on ascending xs, clamped to the end values.
func interpolate(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xs[i] {
			f := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + f*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}
