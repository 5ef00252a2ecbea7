// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"bivariate-granger/internal/regress"
	"bivariate-granger/internal/timeseries"
)

// MinObservations returns the smallest sample a VAR(p) with K variables can be fit on
// while leaving one residual degree of freedom.
func MinObservations(spec ModelSpec, K int) int {
	return spec.Lags + spec.Lags*K + spec.Deterministic.Columns() + 1
}

// designMatrix builds the regressors for rows t = p..T-1:
// [ deterministic terms, y_{t-1,*}, y_{t-2,*}, ..., y_{t-p,*} ].
// Columns of variable skip (if >= 0) are left out of every lag block.
// The trend follows the time index, see TrendIndex.
func designMatrix(Y mat.Matrix, time []float64, spec ModelSpec, skip int) *mat.Dense {
	T, K := Y.Dims()
	p := spec.Lags
	Treg := T - p

	lagVars := K
	if skip >= 0 {
		lagVars--
	}
	m := spec.Deterministic.Columns() + p*lagVars
	X := mat.NewDense(Treg, m, nil)

	for t := 0; t < Treg; t++ {
		col := 0

		if spec.Deterministic.HasConst() {
			X.Set(t, col, 1.0)
			col++
		}
		if spec.Deterministic.HasTrend() {
			X.Set(t, col, TrendIndex(time, t+p))
			col++
		}

		for j := 1; j <= p; j++ {
			srcRow := t + p - j
			for k := 0; k < K; k++ {
				if k == skip {
					continue
				}
				X.Set(t, col, Y.At(srcRow, k))
				col++
			}
		}
	}
	return X
}

// Estimate computes the VAR model parameters using OLS
// ts: Panel containing the data, every column is one equation
// spec: ModelSpec containing the lag order and deterministic terms
// Returns: Model containing the coefficients, in-sample fit and criteria
func Estimate(ts *timeseries.Panel, spec ModelSpec) (*Model, error) {
	if ts == nil || ts.Y == nil {
		return nil, fmt.Errorf("time series data not provided")
	}

	T, K := ts.Y.Dims()
	p := spec.Lags

	if p <= 0 {
		return nil, fmt.Errorf("lags must be > 0")
	}
	if T <= p {
		return nil, fmt.Errorf("need at least p+1 observations: p = %d, T = %d", p, T)
	}
	if need := MinObservations(spec, K); T < need {
		return nil, fmt.Errorf("need at least %d observations for VAR(%d) with %d variables, got %d", need, p, K, T)
	}
	if ts.HasMissing() {
		return nil, fmt.Errorf("time series contains missing values")
	}

	// Response matrix Yreg: rows are y_p, y_{p+1}, ..., y_{T-1}
	Treg := T - p
	Yreg := mat.DenseCopyOf(ts.Y.Slice(p, T, 0, K))

	X := designMatrix(ts.Y, ts.Time, spec, -1)
	detCols := spec.Deterministic.Columns()

	res, err := regress.OLS(X, Yreg)
	if err != nil {
		return nil, fmt.Errorf("VAR(%d) OLS: %w", p, err)
	}
	B := res.B

	// Split B into C (deterministic) and A_j's
	var C *mat.Dense
	if detCols > 0 {
		C = mat.NewDense(K, detCols, nil)
		for k := 0; k < K; k++ {
			for d := 0; d < detCols; d++ {
				C.Set(k, d, B.At(d, k))
			}
		}
	}

	A := make([]*mat.Dense, p)
	for j := 0; j < p; j++ {
		Aj := mat.NewDense(K, K, nil)
		rowOffset := detCols + j*K // start row of this lag block in B

		for eq := 0; eq < K; eq++ {
			for colVar := 0; colVar < K; colVar++ {
				Aj.Set(eq, colVar, B.At(rowOffset+colVar, eq))
			}
		}
		A[j] = Aj
	}

	// Residual covariance SigmaU
	var utu mat.Dense
	utu.Mul(res.Resid.T(), res.Resid) // K x K

	df := res.DF()
	sigmaData := make([]float64, K*K)
	mleData := make([]float64, K*K)
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			sigmaData[i*K+j] = utu.At(i, j) / float64(df)
			mleData[i*K+j] = utu.At(i, j) / float64(Treg)
		}
	}

	aic, bic, err := informationCriteria(mat.NewSymDense(K, mleData), spec, K, Treg)
	if err != nil {
		return nil, err
	}

	return &Model{
		Spec:     spec,
		VarNames: ts.Names(),
		A:        A,
		C:        C,
		SigmaU:   mat.NewSymDense(K, sigmaData),
		Fitted:   res.Fitted,
		Resid:    res.Resid,
		Time:     append([]float64(nil), ts.Time[p:]...),
		K:        K,
		NObs:     Treg,
		DFResid:  df,
		AIC:      aic,
		BIC:      bic,
		y:        mat.DenseCopyOf(ts.Y),
		time:     append([]float64(nil), ts.Time...),
		yReg:     Yreg,
	}, nil
}

// informationCriteria computes AIC and BIC from the MLE residual covariance:
// ld + 2*free/nobs and ld + ln(nobs)*free/nobs, free = p*K^2 + K*detCols.
func informationCriteria(sigmaMLE *mat.SymDense, spec ModelSpec, K, nobs int) (float64, float64, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(sigmaMLE); !ok {
		return 0, 0, fmt.Errorf("residual covariance is not positive definite")
	}
	ld := chol.LogDet()

	free := float64(spec.Lags*K*K + K*spec.Deterministic.Columns())
	n := float64(nobs)
	aic := ld + 2*free/n
	bic := ld + math.Log(n)*free/n
	return aic, bic, nil
}

// Index returns the equation index of a variable, or -1.
func (m *Model) Index(name string) int {
	for k, v := range m.VarNames {
		if v == name {
			return k
		}
	}
	return -1
}

// FittedValues returns the in-sample fitted values of one equation.
func (m *Model) FittedValues(name string) ([]float64, error) {
	k := m.Index(name)
	if k < 0 {
		return nil, fmt.Errorf("variable %q not in model", name)
	}
	return mat.Col(nil, k, m.Fitted), nil
}

// Actual returns the observed values of one equation on the fitted rows.
func (m *Model) Actual(name string) ([]float64, error) {
	k := m.Index(name)
	if k < 0 {
		return nil, fmt.Errorf("variable %q not in model", name)
	}
	return mat.Col(nil, k, m.yReg), nil
}

// Granger tests whether lags of causing help predict caused in the VAR model.
// The null hypothesis is that causing does not Granger-cause caused. When caused and
// causing are the same variable the test is on the equation's own lags.
// F = ((RSS_r - RSS_u)/p) / (RSS_u/df), with p and K*df degrees of freedom
// Returns the F-statistic and p-value
func (m *Model) Granger(caused, causing string) (*GrangerCausalityResult, error) {
	if m == nil || len(m.A) == 0 {
		return nil, fmt.Errorf("VAR model not estimated")
	}

	effectIdx := m.Index(caused)
	if effectIdx < 0 {
		return nil, fmt.Errorf("caused variable %q not in model", caused)
	}
	causeIdx := m.Index(causing)
	if causeIdx < 0 {
		return nil, fmt.Errorf("causing variable %q not in model", causing)
	}

	p := m.Spec.Lags

	// Unrestricted RSS comes straight from the fitted equation
	residUnrestricted := mat.Col(nil, effectIdx, m.Resid)
	rssUnrestricted := floats.Dot(residUnrestricted, residUnrestricted)

	// Restricted regression: same deterministics, all lags of causeIdx removed
	XRestricted := designMatrix(m.y, m.time, m.Spec, causeIdx)

	yEffect := mat.NewDense(m.NObs, 1, mat.Col(nil, effectIdx, m.yReg))
	restricted, err := regress.OLS(XRestricted, yEffect)
	if err != nil {
		return nil, fmt.Errorf("restricted OLS failed: %w", err)
	}
	rssRestricted := restricted.SSR(0)

	// F-statistic and p-value
	q := float64(p) // number of restrictions
	dof := float64(m.DFResid)

	if dof <= 0 {
		return nil, fmt.Errorf("insufficient degrees of freedom: %f", dof)
	}

	// In theory rssRestricted >= rssUnrestricted, but floating point can leave a
	// tiny negative difference.
	num := rssRestricted - rssUnrestricted
	if num < 0 {
		num = 0
	}

	den := rssUnrestricted / dof
	var fStatistic float64
	var pValue float64

	if den <= 0 || num == 0 {
		fStatistic = 0
		pValue = 1
	} else {
		fStatistic = (num / q) / den

		// F is only defined for x >= 0
		if fStatistic <= 0 || math.IsNaN(fStatistic) || math.IsInf(fStatistic, 0) {
			fStatistic = 0
			pValue = 1
		} else {
			fDist := distuv.F{
				D1: q,
				D2: float64(m.K) * dof,
			}
			pValue = fDist.Survival(fStatistic)
		}
	}

	// Final sanity clamp on pValue to ensure it's in [0, 1]
	if pValue < 0 {
		pValue = 0
	}
	if pValue > 1 {
		pValue = 1
	}

	return &GrangerCausalityResult{
		CauseVar:    causing,
		EffectVar:   caused,
		FStatistic:  fStatistic,
		PValue:      pValue,
		DF1:         q,
		DF2:         float64(m.K) * dof,
		Lags:        p,
		Significant: pValue <= 0.05,
	}, nil
}
