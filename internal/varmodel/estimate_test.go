// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"bivariate-granger/internal/timeseries"
)

// helper: compare floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// simulatePair draws x as white noise and y_t = 0.8 x_{t-1} + 0.2 y_{t-1} + small noise.
func simulatePair(t *testing.T, n int, seed int64) *timeseries.Panel {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.NormFloat64()
		if i > 0 {
			y[i] = 0.8*x[i-1] + 0.2*y[i-1] + 0.1*rng.NormFloat64()
		}
	}
	p, err := timeseries.New([]string{"x", "y"}, nil, [][]float64{x, y})
	if err != nil {
		t.Fatalf("timeseries.New: %v", err)
	}
	return p
}

func TestEstimate_RecoversCoefficients(t *testing.T) {
	ts := simulatePair(t, 2000, 1)
	m, err := Estimate(ts, ModelSpec{Lags: 1, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}

	A := m.A[0]
	// equation y: 0.8 on x_{t-1}, 0.2 on y_{t-1}
	if !almostEqual(A.At(1, 0), 0.8, 0.02) {
		t.Errorf("A(y,x) = %v, want ~0.8", A.At(1, 0))
	}
	if !almostEqual(A.At(1, 1), 0.2, 0.02) {
		t.Errorf("A(y,y) = %v, want ~0.2", A.At(1, 1))
	}
	// equation x: white noise, no lag dependence
	if !almostEqual(A.At(0, 0), 0, 0.1) || !almostEqual(A.At(0, 1), 0, 0.1) {
		t.Errorf("x equation coefficients = [%v %v], want ~0", A.At(0, 0), A.At(0, 1))
	}
	if m.NObs != 1999 {
		t.Errorf("NObs = %d, want 1999", m.NObs)
	}
	if m.DFResid != 1999-3 {
		t.Errorf("DFResid = %d, want %d", m.DFResid, 1999-3)
	}
	if len(m.Time) != m.NObs || m.Time[0] != 1 {
		t.Errorf("Time starts at %v with %d entries, want 1 and %d", m.Time[0], len(m.Time), m.NObs)
	}
}

func TestEstimate_FittedPlusResidEqualsActual(t *testing.T) {
	ts := simulatePair(t, 200, 2)
	m, err := Estimate(ts, ModelSpec{Lags: 3, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	for k := 0; k < 2; k++ {
		for i := 0; i < m.NObs; i++ {
			got := m.Fitted.At(i, k) + m.Resid.At(i, k)
			want := ts.Y.At(i+3, k)
			if !almostEqual(got, want, 1e-9) {
				t.Fatalf("row %d var %d: fitted+resid = %v, want %v", i, k, got, want)
			}
		}
	}

	fitted, err := m.FittedValues("y")
	if err != nil || len(fitted) != m.NObs {
		t.Fatalf("FittedValues = %d values, err %v", len(fitted), err)
	}
	actual, _ := m.Actual("y")
	if actual[0] != ts.Y.At(3, 1) {
		t.Errorf("Actual[0] = %v, want %v", actual[0], ts.Y.At(3, 1))
	}
}

// AIC/BIC must follow ln det(Sigma_mle) + penalty * (p K^2 + K) / nobs.
func TestEstimate_InformationCriteria(t *testing.T) {
	ts := simulatePair(t, 300, 3)
	m, err := Estimate(ts, ModelSpec{Lags: 2, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}

	var utu mat.Dense
	utu.Mul(m.Resid.T(), m.Resid)
	n := float64(m.NObs)
	det := (utu.At(0, 0)*utu.At(1, 1) - utu.At(0, 1)*utu.At(1, 0)) / (n * n)
	ld := math.Log(det)
	free := float64(2*4 + 2)

	if !almostEqual(m.AIC, ld+2*free/n, 1e-9) {
		t.Errorf("AIC = %v, want %v", m.AIC, ld+2*free/n)
	}
	if !almostEqual(m.BIC, ld+math.Log(n)*free/n, 1e-9) {
		t.Errorf("BIC = %v, want %v", m.BIC, ld+math.Log(n)*free/n)
	}
}

func TestEstimate_Errors(t *testing.T) {
	ts := simulatePair(t, 6, 4)
	if _, err := Estimate(ts, ModelSpec{Lags: 0}); err == nil {
		t.Errorf("expected error for zero lags")
	}
	if _, err := Estimate(ts, ModelSpec{Lags: 6}); err == nil {
		t.Errorf("expected error for lags >= T")
	}
	// VAR(2) with 2 variables and a constant needs 2 + 4 + 1 + 1 = 8 rows
	if _, err := Estimate(ts, ModelSpec{Lags: 2, Deterministic: DetConst}); err == nil {
		t.Errorf("expected error for too few observations")
	}
	if _, err := Estimate(nil, ModelSpec{Lags: 1}); err == nil {
		t.Errorf("expected error for nil panel")
	}

	withNaN, _ := timeseries.New([]string{"a", "b"}, nil, [][]float64{
		{1, 2, 3, math.NaN(), 5, 6, 7, 8},
		{1, 2, 1, 2, 1, 2, 1, 2},
	})
	if _, err := Estimate(withNaN, ModelSpec{Lags: 1, Deterministic: DetConst}); err == nil {
		t.Errorf("expected error for missing values")
	}
}

func TestGranger_DetectsLaggedDependence(t *testing.T) {
	ts := simulatePair(t, 500, 5)
	m, err := Estimate(ts, ModelSpec{Lags: 2, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}

	xCausesY, err := m.Granger("y", "x")
	if err != nil {
		t.Fatalf("Granger(y, x) returned error: %v", err)
	}
	if xCausesY.PValue > 1e-6 || !xCausesY.Significant {
		t.Errorf("x -> y p-value = %v, want ~0", xCausesY.PValue)
	}
	if xCausesY.DF1 != 2 || xCausesY.DF2 != float64(2*m.DFResid) {
		t.Errorf("df = (%v, %v), want (2, %d)", xCausesY.DF1, xCausesY.DF2, 2*m.DFResid)
	}

	yCausesX, err := m.Granger("x", "y")
	if err != nil {
		t.Fatalf("Granger(x, y) returned error: %v", err)
	}
	if yCausesX.FStatistic >= xCausesY.FStatistic {
		t.Errorf("F(y -> x) = %v should be far below F(x -> y) = %v", yCausesX.FStatistic, xCausesY.FStatistic)
	}
	if yCausesX.PValue < 0 || yCausesX.PValue > 1 {
		t.Errorf("p-value out of range: %v", yCausesX.PValue)
	}
}

// The F statistic equals the Wald form ((RSS_r - RSS_u)/p) / (RSS_u/df).
func TestGranger_OwnLagsMatchesManualRegression(t *testing.T) {
	ts := simulatePair(t, 120, 6)
	m, err := Estimate(ts, ModelSpec{Lags: 1, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	res, err := m.Granger("y", "y")
	if err != nil {
		t.Fatalf("Granger(y, y) returned error: %v", err)
	}

	// restricted y equation: constant and x_{t-1} only
	n := m.NObs
	var sx, sy, sxx, sxy float64
	for i := 0; i < n; i++ {
		xv := ts.Y.At(i, 0)
		yv := ts.Y.At(i+1, 1)
		sx += xv
		sy += yv
		sxx += xv * xv
		sxy += xv * yv
	}
	fn := float64(n)
	b := (fn*sxy - sx*sy) / (fn*sxx - sx*sx)
	a := (sy - b*sx) / fn
	rssR := 0.0
	for i := 0; i < n; i++ {
		e := ts.Y.At(i+1, 1) - a - b*ts.Y.At(i, 0)
		rssR += e * e
	}
	rssU := 0.0
	for i := 0; i < n; i++ {
		rssU += m.Resid.At(i, 1) * m.Resid.At(i, 1)
	}
	want := (rssR - rssU) / (rssU / float64(m.DFResid))

	if !almostEqual(res.FStatistic, want, 1e-6*math.Max(1, want)) {
		t.Errorf("F = %v, want %v", res.FStatistic, want)
	}
}

func TestGranger_UnknownVariable(t *testing.T) {
	ts := simulatePair(t, 50, 7)
	m, err := Estimate(ts, ModelSpec{Lags: 1, Deterministic: DetConst})
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if _, err := m.Granger("z", "x"); err == nil {
		t.Errorf("expected error for unknown caused variable")
	}
	if _, err := m.Granger("x", "z"); err == nil {
		t.Errorf("expected error for unknown causing variable")
	}
}

func TestParseDeterministic(t *testing.T) {
	cases := map[string]Deterministic{
		"none": DetNone, "const": DetConst, "": DetConst, "trend": DetTrend, "ct": DetConstTrend,
	}
	for in, want := range cases {
		got, err := ParseDeterministic(in)
		if err != nil || got != want {
			t.Errorf("ParseDeterministic(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDeterministic("quadratic"); err == nil {
		t.Errorf("expected error for unknown term")
	}
	if DetConstTrend.Columns() != 2 || DetNone.Columns() != 0 {
		t.Errorf("unexpected column counts")
	}
}

func TestTrendIndex(t *testing.T) {
	if got := TrendIndex(nil, 4); got != 5 {
		t.Errorf("TrendIndex(nil, 4) = %v, want 5", got)
	}
	tm := []float64{2000, 2001, 2004, 2005}
	if got := TrendIndex(tm, 0); got != 1 {
		t.Errorf("TrendIndex at the first row = %v, want 1", got)
	}
	if got := TrendIndex(tm, 2); got != 5 {
		t.Errorf("TrendIndex after a gap = %v, want 5", got)
	}
}

// Rows dropped for missing values leave a gap in the trend regressor.
func TestDesignMatrix_TrendFollowsTimeIndex(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4, 5, 6}
	y := []float64{2, 1, 3, 3, 5, 4}
	panel, err := timeseries.New([]string{"x", "y"}, nil, [][]float64{x, y})
	if err != nil {
		t.Fatalf("timeseries.New returned error: %v", err)
	}
	complete := panel.CompleteRows()

	spec := ModelSpec{Lags: 1, Deterministic: DetConstTrend}
	X := designMatrix(complete.Y, complete.Time, spec, -1)

	// time index 0,1,3,4,5, fitted rows start at the second one
	want := []float64{2, 4, 5, 6}
	if r, _ := X.Dims(); r != len(want) {
		t.Fatalf("design matrix has %d rows, want %d", r, len(want))
	}
	for i, w := range want {
		if X.At(i, 0) != 1 || X.At(i, 1) != w {
			t.Errorf("row %d: const %v trend %v, want 1 and %v", i, X.At(i, 0), X.At(i, 1), w)
		}
	}
}
