// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package causality

import "errors"

var (
	// ErrInsufficientData is returned when a pair is too short for the requested lag.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrModelFit is returned when a VAR or AR fit fails or leaves no aligned rows.
	ErrModelFit = errors.New("model fit failed")
	// ErrEmptyInput is returned when fewer than two variables are requested.
	ErrEmptyInput = errors.New("at least two variables are required")
)
