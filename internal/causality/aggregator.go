// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package causality computes bivariate Granger causality ratios over every pair of a
// set of variables.
//
// For each unordered pair {X, Y} the joint VAR(p) is compared with the univariate AR(p)
// of each variable. The causality ratio of Y on X is ln(std_AR(X) / std_VAR(X)), the
// log reduction in prediction error when lags of Y enter the model of X. Ratios whose
// Granger F-test p-value exceeds alpha are reported as 0.
//
// One lag order is used for every pair: the largest of the lags selected per pair.
package causality

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"bivariate-granger/internal/stationarity"
	"bivariate-granger/internal/timeseries"
)

// Pair is an unordered pair of variables, evaluated in both directions.
type Pair struct {
	X, Y string
}

func (p Pair) String() string {
	return p.X + "~" + p.Y
}

// Pairs enumerates names[i], names[j] for i < j.
func Pairs(names []string) []Pair {
	var out []Pair
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			out = append(out, Pair{X: names[i], Y: names[j]})
		}
	}
	return out
}

// RatioMatrix holds the gated causality ratios, rows are causes and columns effects.
// The diagonal is 0.
type RatioMatrix struct {
	Names  []string
	Values *mat.Dense
}

func newRatioMatrix(names []string) *RatioMatrix {
	n := len(names)
	return &RatioMatrix{
		Names:  append([]string(nil), names...),
		Values: mat.NewDense(n, n, nil),
	}
}

func (m *RatioMatrix) index(name string) int {
	for i, v := range m.Names {
		if v == name {
			return i
		}
	}
	return -1
}

// At returns the ratio of cause on effect, NaN for unknown names.
func (m *RatioMatrix) At(cause, effect string) float64 {
	i, j := m.index(cause), m.index(effect)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values.At(i, j)
}

func (m *RatioMatrix) set(cause, effect string, v float64) {
	m.Values.Set(m.index(cause), m.index(effect), v)
}

// Report is the outcome of one run.
type Report struct {
	// Lag is the global lag order, the maximum of PairLags
	Lag      int
	Pairs    []Pair
	PairLags []int

	// Records are deduplicated and sorted by Source
	Records []Record
	Ratios  *RatioMatrix

	Stationarity        map[string]bool
	StationarityReports map[string]*stationarity.Report
}

// Aggregator runs the pairwise analysis.
type Aggregator struct {
	cfg Config
}

// New returns an Aggregator, filling unset options with defaults.
func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (a *Aggregator) Config() Config {
	return a.cfg
}

// Run checks stationarity of every variable, selects a lag per pair, evaluates every
// pair at the global lag and assembles the results table and ratio matrix.
// Non-stationary series are only reported.
func (a *Aggregator) Run(panel *timeseries.Panel, names []string) (*Report, error) {
	names = unique(names)
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: got %d distinct variables", ErrEmptyInput, len(names))
	}
	if panel == nil {
		return nil, fmt.Errorf("%w: no panel provided", ErrInsufficientData)
	}
	for _, name := range names {
		if panel.Index(name) < 0 {
			return nil, fmt.Errorf("variable %q not in panel", name)
		}
	}

	log := a.cfg.Logger
	start := time.Now()

	// 1. Stationarity, diagnostic only
	stationary, reports := a.checkStationarity(panel, names)

	// 2. Lag per pair, then the global lag
	pairs := Pairs(names)
	log.Info().Int("variables", len(names)).Int("pairs", len(pairs)).Int("workers", a.cfg.Workers).
		Msg("selecting lag orders")

	pairLags := make([]int, len(pairs))
	err := forEach(len(pairs), a.cfg.Workers, func(i int) error {
		lag, err := a.SelectLag(panel, pairs[i], a.cfg.MaxLag)
		if err != nil {
			return err
		}
		pairLags[i] = lag
		a.cfg.Observer.ObserveLag(pairs[i], lag)
		return nil
	})
	if err != nil {
		return nil, err
	}

	lag := 0
	for _, p := range pairLags {
		if p > lag {
			lag = p
		}
	}
	log.Info().Int("lag", lag).Msg("number of coefficients for the autoregressive models")

	// 3. Evaluate every pair at the global lag
	rows := make([][4]Record, len(pairs))
	err = forEach(len(pairs), a.cfg.Workers, func(i int) error {
		r, err := a.EvaluatePair(panel, pairs[i], lag)
		rows[i] = r
		return err
	})
	if err != nil {
		return nil, err
	}

	// 4. Ratio matrix and results table
	ratios := newRatioMatrix(names)
	records := make([]Record, 0, 4*len(pairs))
	for i, pair := range pairs {
		r := rows[i]
		ratios.set(pair.Y, pair.X, r[1].Ratio)
		ratios.set(pair.X, pair.Y, r[3].Ratio)
		records = append(records, r[:]...)
	}
	records = dedupe(records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Source < records[j].Source
	})

	log.Info().Int("records", len(records)).Dur("elapsed", time.Since(start)).
		Msg("granger causality run finished")

	return &Report{
		Lag:                 lag,
		Pairs:               pairs,
		PairLags:            pairLags,
		Records:             records,
		Ratios:              ratios,
		Stationarity:        stationary,
		StationarityReports: reports,
	}, nil
}

func (a *Aggregator) checkStationarity(panel *timeseries.Panel, names []string) (map[string]bool, map[string]*stationarity.Report) {
	log := a.cfg.Logger
	verdicts := make(map[string]bool, len(names))
	reports := make(map[string]*stationarity.Report, len(names))

	for _, name := range names {
		// names were checked against the panel by Run
		col, _ := panel.Column(name)
		ok, rep, err := stationarity.Check(col, name, a.cfg.Stationarity)
		verdicts[name] = ok
		if err != nil {
			log.Warn().Err(err).Str("variable", name).Msg("stationarity test could not run")
			continue
		}
		reports[name] = rep

		ev := log.Debug()
		if !ok {
			ev = log.Warn()
		}
		ev.Str("variable", name).Str("test", string(rep.Method)).
			Float64("statistic", rep.Statistic).Float64("p_value", rep.PValue).
			Int("lags", rep.Lags).Int("nobs", rep.NObs).Bool("stationary", ok).
			Msg("stationarity check")
	}
	return verdicts, reports
}

func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

type recordKey struct {
	source, target          string
	lag                     int
	std, corr, p, ratio, rr uint64
	baseline                bool
}

// dedupe drops repeated rows, keeping the first. NaN fields compare equal.
func dedupe(records []Record) []Record {
	seen := make(map[recordKey]bool, len(records))
	out := records[:0]
	for _, r := range records {
		k := recordKey{
			source:   r.Source,
			target:   r.Target,
			lag:      r.Lag,
			std:      math.Float64bits(r.ResidualStd),
			corr:     math.Float64bits(r.Correlation),
			p:        math.Float64bits(r.PValue),
			ratio:    math.Float64bits(r.Ratio),
			rr:       math.Float64bits(r.RawRatio),
			baseline: r.Baseline,
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
