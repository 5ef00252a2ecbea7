// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package causality

import (
	"fmt"
	"math"

	"bivariate-granger/internal/timeseries"
	"bivariate-granger/internal/varmodel"
)

// SelectLag searches VAR(p) on the pair for p in [1, maxLag) (only p = 1 when maxLag is 1)
// and returns the lag of the smaller of the best AIC and the best BIC. Ties go to the
// smaller lag, and to BIC between the two criteria.
// Lags that would leave no residual degrees of freedom are not fitted. When the chosen
// lag is the largest one searched a warning is logged and the lag is returned anyway.
func (a *Aggregator) SelectLag(panel *timeseries.Panel, pair Pair, maxLag int) (int, error) {
	if maxLag < 1 {
		return 0, fmt.Errorf("max lag must be >= 1, got %d", maxLag)
	}
	sub, err := pairPanel(panel, pair)
	if err != nil {
		return 0, err
	}
	log := a.cfg.Logger.With().Str("pair", pair.String()).Logger()

	top := maxLag - 1
	if top < 1 {
		top = 1
	}

	bestAIC, bestBIC := math.Inf(1), math.Inf(1)
	lagAIC, lagBIC := 0, 0
	searched := 0

	for p := 1; p <= top; p++ {
		spec := varmodel.ModelSpec{Lags: p, Deterministic: a.cfg.Deterministic}
		if need := varmodel.MinObservations(spec, 2); sub.Len() < need {
			if p == 1 {
				return 0, fmt.Errorf("%w: pair %s has %d complete rows, VAR(1) needs %d",
					ErrInsufficientData, pair, sub.Len(), need)
			}
			log.Debug().Int("lag", p).Int("rows", sub.Len()).Msg("lag search truncated, sample too short")
			break
		}

		m, err := varmodel.Estimate(sub, spec)
		a.cfg.Observer.ObserveFit(FitLagSearch, err)
		if err != nil {
			if p == 1 {
				return 0, fmt.Errorf("%w: VAR(1) on %s: %w", ErrModelFit, pair, err)
			}
			log.Warn().Err(err).Int("lag", p).Msg("skipping lag candidate")
			continue
		}
		searched = p

		if m.AIC < bestAIC {
			bestAIC, lagAIC = m.AIC, p
		}
		if m.BIC < bestBIC {
			bestBIC, lagBIC = m.BIC, p
		}
	}

	if lagAIC == 0 && lagBIC == 0 {
		return 0, fmt.Errorf("%w: no finite information criteria for %s", ErrModelFit, pair)
	}

	lag := lagAIC
	if bestBIC <= bestAIC {
		lag = lagBIC
	}

	log.Debug().
		Int("lag_aic", lagAIC).Float64("aic", bestAIC).
		Int("lag_bic", lagBIC).Float64("bic", bestBIC).
		Int("lag", lag).Msg("lag selected")

	if lag == searched {
		log.Warn().Int("lag", lag).Int("max_lag", maxLag).
			Msg("selected lag hit the search ceiling, increase max lag; minimum is not guaranteed")
	}
	return lag, nil
}
