// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package causality

import (
	"time"

	"github.com/rs/zerolog"

	"bivariate-granger/internal/stationarity"
	"bivariate-granger/internal/varmodel"
)

const (
	// DefaultMaxLag bounds the lag search to 1..50.
	DefaultMaxLag = 51
	// DefaultAlpha is the significance level that gates causality ratios.
	DefaultAlpha = 0.05
)

// Fit kinds reported to an Observer.
const (
	FitLagSearch = "lag_search"
	FitVAR       = "var"
	FitAR        = "ar"
)

// Observer receives run events, e.g. to export metrics. Implementations must be safe
// for concurrent use when Workers > 1.
type Observer interface {
	ObserveFit(kind string, err error)
	ObserveLag(pair Pair, lag int)
	ObservePair(pair Pair, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFit(string, error) {}
func (nopObserver) ObserveLag(Pair, int) {}
func (nopObserver) ObservePair(Pair, time.Duration) {}

// Config holds the options of an Aggregator. Start from DefaultConfig; a zero MaxLag,
// Alpha or Workers falls back to its default.
type Config struct {
	MaxLag        int
	Alpha         float64
	Deterministic varmodel.Deterministic
	Stationarity  stationarity.Method
	// Workers > 1 evaluates pairs on a worker pool
	Workers       int
	Logger        zerolog.Logger
	Observer      Observer
}

// DefaultConfig returns the reference configuration: lags 1..50, alpha 0.05, VAR with a
// constant, ADF, sequential, no logging.
func DefaultConfig() Config {
	return Config{
		MaxLag:        DefaultMaxLag,
		Alpha:         DefaultAlpha,
		Deterministic: varmodel.DetConst,
		Stationarity:  stationarity.ADFTest,
		Workers:       1,
		Logger:        zerolog.Nop(),
		Observer:      nopObserver{},
	}
}

func (c Config) withDefaults() Config {
	if c.MaxLag <= 0 {
		c.MaxLag = DefaultMaxLag
	}
	if c.Alpha <= 0 {
		c.Alpha = DefaultAlpha
	}
	if c.Stationarity == "" {
		c.Stationarity = stationarity.ADFTest
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}
