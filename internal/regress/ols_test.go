// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package regress

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// helper: compare floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// y = 2 + 3x exactly, so OLS must recover the line with zero residuals.
func TestOLS_ExactLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	X := mat.NewDense(len(xs), 2, nil)
	Y := mat.NewDense(len(xs), 1, nil)
	for i, x := range xs {
		X.Set(i, 0, 1)
		X.Set(i, 1, x)
		Y.Set(i, 0, 2+3*x)
	}

	res, err := OLS(X, Y)
	if err != nil {
		t.Fatalf("OLS returned error: %v", err)
	}
	if !almostEqual(res.B.At(0, 0), 2, 1e-9) || !almostEqual(res.B.At(1, 0), 3, 1e-9) {
		t.Errorf("B = [%v %v], want [2 3]", res.B.At(0, 0), res.B.At(1, 0))
	}
	if !almostEqual(res.SSR(0), 0, 1e-12) {
		t.Errorf("SSR = %v, want 0", res.SSR(0))
	}
	if res.DF() != 3 {
		t.Errorf("DF = %d, want 3", res.DF())
	}
}

// Two identical columns make X'X singular; the SVD fallback still fits the data.
func TestOLS_SingularFallsBackToSVD(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	Y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	res, err := OLS(X, Y)
	if err != nil {
		t.Fatalf("OLS returned error: %v", err)
	}
	if res.Rank != 1 {
		t.Errorf("Rank = %d, want 1", res.Rank)
	}
	// minimum-norm solution splits the weight evenly
	if !almostEqual(res.B.At(0, 0), 1, 1e-9) || !almostEqual(res.B.At(1, 0), 1, 1e-9) {
		t.Errorf("B = [%v %v], want [1 1]", res.B.At(0, 0), res.B.At(1, 0))
	}
	for i := 0; i < 4; i++ {
		if !almostEqual(res.Fitted.At(i, 0), Y.At(i, 0), 1e-9) {
			t.Errorf("Fitted[%d] = %v, want %v", i, res.Fitted.At(i, 0), Y.At(i, 0))
		}
	}
}

// Standard error of the slope in simple regression is sqrt(s^2 / Sxx).
func TestStdErrors_SimpleRegression(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := []float64{1.1, 1.9, 3.2, 3.8, 5.3, 5.9}
	X := mat.NewDense(len(xs), 2, nil)
	Y := mat.NewDense(len(xs), 1, ys)
	for i, x := range xs {
		X.Set(i, 0, 1)
		X.Set(i, 1, x)
	}

	res, err := OLS(X, Y)
	if err != nil {
		t.Fatalf("OLS returned error: %v", err)
	}
	se, err := res.StdErrors(0)
	if err != nil {
		t.Fatalf("StdErrors returned error: %v", err)
	}

	sxx := 0.0
	for _, x := range xs {
		sxx += (x - 3.5) * (x - 3.5)
	}
	s2 := res.SSR(0) / 4
	want := math.Sqrt(s2 / sxx)
	if !almostEqual(se[1], want, 1e-9) {
		t.Errorf("slope se = %v, want %v", se[1], want)
	}
}

func TestOLS_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	Y := mat.NewDense(2, 1, []float64{1, 2})
	if _, err := OLS(X, Y); err == nil {
		t.Errorf("expected error for mismatched rows")
	}
}
