// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package metrics counts model fits and pair evaluations of a run with Prometheus.
// A batch run has nothing to scrape it, so the registry is written to a
// node_exporter textfile when the run ends.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bivariate-granger/internal/causality"
)

// Collector implements causality.Observer on its own registry.
type Collector struct {
	Registry *prometheus.Registry

	FitsTotal      *prometheus.CounterVec
	FitErrorsTotal *prometheus.CounterVec
	PairsTotal     prometheus.Counter
	PairDuration   prometheus.Histogram
	SelectedLag    *prometheus.GaugeVec
}

var _ causality.Observer = (*Collector)(nil)

// New registers the collectors on a fresh registry.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		FitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "granger_model_fits_total", Help: "Models fitted, by kind"},
			[]string{"kind"},
		),
		FitErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "granger_model_fit_errors_total", Help: "Model fits that failed, by kind"},
			[]string{"kind"},
		),
		PairsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "granger_pairs_evaluated_total", Help: "Variable pairs evaluated"},
		),
		PairDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "granger_pair_duration_seconds",
			Help:    "Time to evaluate one pair at the global lag",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		SelectedLag: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "granger_selected_lag", Help: "Lag proposed by the lag search for a pair"},
			[]string{"x", "y"},
		),
	}
	c.Registry.MustRegister(c.FitsTotal, c.FitErrorsTotal, c.PairsTotal, c.PairDuration, c.SelectedLag)
	return c
}

// ObserveFit counts a fitted model and, when err is set, a failed one.
func (c *Collector) ObserveFit(kind string, err error) {
	c.FitsTotal.WithLabelValues(kind).Inc()
	if err != nil {
		c.FitErrorsTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveLag records the lag proposed for a pair.
func (c *Collector) ObserveLag(pair causality.Pair, lag int) {
	c.SelectedLag.WithLabelValues(pair.X, pair.Y).Set(float64(lag))
}

// ObservePair counts an evaluated pair and its duration.
func (c *Collector) ObservePair(pair causality.Pair, elapsed time.Duration) {
	c.PairsTotal.Inc()
	c.PairDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the text exposition format, atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Registry)
}
