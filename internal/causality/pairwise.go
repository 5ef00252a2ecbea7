// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package causality

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"bivariate-granger/internal/ar"
	"bivariate-granger/internal/timeseries"
	"bivariate-granger/internal/varmodel"
)

// NoTarget is the Target of a univariate baseline record.
const NoTarget = "-"

// Record is one row of the results table.
type Record struct {
	Source string // predicted variable
	Target string // conditioning variable, NoTarget for the AR baseline
	Lag    int

	// Population std of |fitted - actual| and Pearson correlation of fitted vs actual
	ResidualStd float64
	Correlation float64

	// Granger F-test p-value. Baselines carry the test on the variable's own lags.
	PValue float64

	// Ratio is RawRatio, or 0 when PValue exceeds alpha. Both are 0 / NaN on baselines.
	Ratio    float64
	RawRatio float64
	Baseline bool
}

// EvaluatePair fits VAR(lag) on (X, Y) and AR(lag) on each of X and Y, and returns the
// rows [X baseline, X given Y, Y baseline, Y given X]. The ratio on "X given Y" is
// ln(std_AR(X) / std_VAR(X)), the predictive gain from lags of Y.
func (a *Aggregator) EvaluatePair(panel *timeseries.Panel, pair Pair, lag int) ([4]Record, error) {
	var out [4]Record
	if lag < 1 {
		return out, fmt.Errorf("lag must be >= 1, got %d", lag)
	}
	start := time.Now()

	sub, err := pairPanel(panel, pair)
	if err != nil {
		return out, err
	}
	spec := varmodel.ModelSpec{Lags: lag, Deterministic: a.cfg.Deterministic}
	if need := varmodel.MinObservations(spec, 2); sub.Len() < need {
		return out, fmt.Errorf("%w: pair %s has %d complete rows, VAR(%d) needs %d",
			ErrInsufficientData, pair, sub.Len(), lag, need)
	}

	// 1. Joint model, shared by both directions
	joint, err := varmodel.Estimate(sub, spec)
	a.cfg.Observer.ObserveFit(FitVAR, err)
	if err != nil {
		return out, fmt.Errorf("%w: VAR(%d) on %s: %w", ErrModelFit, lag, pair, err)
	}

	// 2. Baseline and conditioned rows per direction
	out[0], out[1], err = a.direction(joint, sub, pair.X, pair.Y)
	if err != nil {
		return out, err
	}
	out[2], out[3], err = a.direction(joint, sub, pair.Y, pair.X)
	if err != nil {
		return out, err
	}

	a.cfg.Observer.ObservePair(pair, time.Since(start))
	return out, nil
}

// direction compares the AR(p) fit of own with its equation in the joint VAR. Both
// carry the same deterministic terms, so the ratio only measures the lags of other.
func (a *Aggregator) direction(joint *varmodel.Model, sub *timeseries.Panel, own, other string) (Record, Record, error) {
	var baseline, given Record
	p := joint.Spec.Lags

	actual, err := joint.Actual(own)
	if err != nil {
		return baseline, given, err
	}
	jointFit, err := joint.FittedValues(own)
	if err != nil {
		return baseline, given, err
	}

	series, err := sub.Column(own)
	if err != nil {
		return baseline, given, err
	}
	uni, err := ar.Fit(series, sub.Time, p, joint.Spec.Deterministic)
	a.cfg.Observer.ObserveFit(FitAR, err)
	if err != nil {
		return baseline, given, fmt.Errorf("%w: AR(%d) on %s: %w", ErrModelFit, p, own, err)
	}

	if len(actual) == 0 || len(uni.Fitted) != len(actual) || len(jointFit) != len(actual) {
		return baseline, given, fmt.Errorf("%w: %s has %d aligned rows, AR %d, VAR %d",
			ErrModelFit, own, len(actual), len(uni.Fitted), len(jointFit))
	}

	ownTest, err := joint.Granger(own, own)
	if err != nil {
		return baseline, given, fmt.Errorf("%w: own-lag test on %s: %w", ErrModelFit, own, err)
	}
	crossTest, err := joint.Granger(own, other)
	if err != nil {
		return baseline, given, fmt.Errorf("%w: %s -> %s test: %w", ErrModelFit, other, own, err)
	}

	uniStd, uniCorr := fitStats(uni.Fitted, actual)
	jointStd, jointCorr := fitStats(jointFit, actual)
	raw := math.Log(uniStd / jointStd)

	baseline = Record{
		Source:      own,
		Target:      NoTarget,
		Lag:         p,
		ResidualStd: uniStd,
		Correlation: uniCorr,
		PValue:      ownTest.PValue,
		RawRatio:    math.NaN(),
		Baseline:    true,
	}
	given = Record{
		Source:      own,
		Target:      other,
		Lag:         p,
		ResidualStd: jointStd,
		Correlation: jointCorr,
		PValue:      crossTest.PValue,
		Ratio:       a.gate(raw, crossTest.PValue),
		RawRatio:    raw,
	}
	return baseline, given, nil
}

// gate zeroes a ratio that is not significant at alpha.
func (a *Aggregator) gate(ratio, pValue float64) float64 {
	if math.IsNaN(pValue) || pValue > a.cfg.Alpha {
		return 0
	}
	return ratio
}

// fitStats returns the population std of |fitted - actual| and corr(fitted, actual),
// the latter clamped to [-1, 1] against rounding.
func fitStats(fitted, actual []float64) (float64, float64) {
	abs := make([]float64, len(fitted))
	for i := range fitted {
		abs[i] = math.Abs(fitted[i] - actual[i])
	}
	_, std := stat.PopMeanStdDev(abs, nil)
	corr := math.Max(-1, math.Min(1, stat.Correlation(fitted, actual, nil)))
	return std, corr
}

// pairPanel returns the two columns of pair on their complete rows.
func pairPanel(panel *timeseries.Panel, pair Pair) (*timeseries.Panel, error) {
	if panel == nil || panel.Len() == 0 {
		return nil, fmt.Errorf("%w: empty panel", ErrInsufficientData)
	}
	if pair.X == pair.Y {
		return nil, fmt.Errorf("pair %s needs two distinct variables", pair)
	}
	sub, err := panel.Select(pair.X, pair.Y)
	if err != nil {
		return nil, err
	}
	sub = sub.CompleteRows()
	if sub.Len() == 0 {
		return nil, fmt.Errorf("%w: pair %s has no complete rows", ErrInsufficientData, pair)
	}
	return sub, nil
}
