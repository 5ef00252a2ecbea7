// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package regress implements the ordinary least squares solve shared by the VAR, AR
// and unit-root regressions.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result holds a multi-response least squares fit of Y (n x K) on X (n x m).
type Result struct {
	// Coefficients, m x K, column k belongs to response k
	B *mat.Dense
	// Fitted values X*B, n x K
	Fitted *mat.Dense
	// Residuals Y - X*B, n x K
	Resid *mat.Dense
	// (X'X)^-1, or its pseudo-inverse when X is rank deficient
	XtXInv *mat.Dense
	// Numerical rank of X
	Rank int
	// Number of observations and regressors
	N, M int
}

// OLS computes B = (X'X)^(-1) X'Y.
// If X'X is singular it falls back to the minimum-norm SVD solution.
func OLS(X, Y mat.Matrix) (*Result, error) {
	n, m := X.Dims()
	nY, K := Y.Dims()
	if n != nY {
		return nil, fmt.Errorf("X has %d rows and Y has %d", n, nY)
	}
	if n == 0 || m == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}

	var B mat.Dense
	var xtxInv mat.Dense
	rank := m

	// First try: normal equations B = (X'X)^(-1) X'Y
	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	xtxError := xtxInv.Inverse(&xtx)
	if xtxError == nil {
		// X'X is invertible: standard OLS
		var xty mat.Dense
		xty.Mul(X.T(), Y)
		B.Mul(&xtxInv, &xty)
	} else {
		// Fallback: X'X is singular or badly conditioned.
		// Use SVD-based least squares: minimize ||Y - X B||_F with minimum-norm B.
		var svd mat.SVD
		if ok := svd.Factorize(X, mat.SVDThin); !ok {
			return nil, fmt.Errorf("OLS failed: X'X singular and SVD factorization failed: %v", xtxError)
		}

		rank = svd.Rank(1e-12)
		if rank == 0 {
			// X is numerically zero, the minimum-norm solution is B = 0
			B = *mat.NewDense(m, K, nil)
			xtxInv = *mat.NewDense(m, m, nil)
		} else {
			svd.SolveTo(&B, Y, rank)

			// Pseudo-inverse of X'X is V_r S_r^-2 V_r'
			var V mat.Dense
			svd.VTo(&V)
			s := svd.Values(nil)
			scaled := mat.NewDense(m, rank, nil)
			for j := 0; j < rank; j++ {
				for i := 0; i < m; i++ {
					scaled.Set(i, j, V.At(i, j)/(s[j]*s[j]))
				}
			}
			xtxInv.Mul(scaled, V.Slice(0, m, 0, rank).T())
		}
	}

	var fitted mat.Dense
	fitted.Mul(X, &B)

	var resid mat.Dense
	resid.Sub(Y, &fitted)

	for _, v := range fitted.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("OLS produced non-finite fitted values")
		}
	}

	return &Result{
		B:      &B,
		Fitted: &fitted,
		Resid:  &resid,
		XtXInv: &xtxInv,
		Rank:   rank,
		N:      n,
		M:      m,
	}, nil
}

// DF returns the residual degrees of freedom n - m.
func (r *Result) DF() int { return r.N - r.M }

// SSR returns the sum of squared residuals of response k.
func (r *Result) SSR(k int) float64 {
	col := mat.Col(nil, k, r.Resid)
	return floats.Dot(col, col)
}

// StdErrors returns the coefficient standard errors of response k using
// s^2 = SSR / (n - m).
func (r *Result) StdErrors(k int) ([]float64, error) {
	df := r.DF()
	if df <= 0 {
		return nil, fmt.Errorf("insufficient degrees of freedom: %d", df)
	}
	s2 := r.SSR(k) / float64(df)
	se := make([]float64, r.M)
	for i := 0; i < r.M; i++ {
		se[i] = math.Sqrt(s2 * r.XtXInv.At(i, i))
	}
	return se, nil
}

// LogLikelihood returns the Gaussian log-likelihood of response k,
// -n/2 * (ln(2 pi) + ln(SSR/n) + 1).
func (r *Result) LogLikelihood(k int) float64 {
	n := float64(r.N)
	return -n / 2 * (math.Log(2*math.Pi) + math.Log(r.SSR(k)/n) + 1)
}

// AIC returns -2 llf + 2 m for response k.
func (r *Result) AIC(k int) float64 {
	return -2*r.LogLikelihood(k) + 2*float64(r.M)
}
