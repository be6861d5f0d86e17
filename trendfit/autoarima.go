package trendfit

import (
	"fmt"

	"github.com/cwbudde/algo-tsa/series"
)

// AutoConfig bounds the AutoARIMA order search. Zero values fall back
// to MaxP=3, MaxD=2, MaxQ=3.
type AutoConfig struct {
	MaxP int
	MaxD int
	MaxQ int
}

func (c AutoConfig) withDefaults() AutoConfig {
	if c.MaxP == 0 {
		c.MaxP = 3
	}
	if c.MaxD == 0 {
		c.MaxD = 2
	}
	if c.MaxQ == 0 {
		c.MaxQ = 3
	}
	return c
}

// AutoARIMA grid-searches orders up to the configured bounds and keeps
// the model with the lowest AICc. Orders whose fit fails are skipped.
// Model selection by information criterion happily overfits short noisy
// records; prefer the parametric fits when the functional form is
// known.
func AutoARIMA(values []float64, cfg AutoConfig) (*ARIMA, error) {
	cfg = cfg.withDefaults()
	if cfg.MaxP < 0 || cfg.MaxD < 0 || cfg.MaxQ < 0 {
		return nil, fmt.Errorf("trendfit: negative order bound (%d,%d,%d)", cfg.MaxP, cfg.MaxD, cfg.MaxQ)
	}

	var best *ARIMA
	evaluated := 0
	for d := 0; d <= cfg.MaxD; d++ {
		for p := 0; p <= cfg.MaxP; p++ {
			for q := 0; q <= cfg.MaxQ; q++ {
				m, err := FitARIMA(values, Order{P: p, D: d, Q: q})
				if err != nil {
					continue
				}
				evaluated++
				if best == nil || m.AICc < best.AICc {
					best = m
				}
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("trendfit: no arima order could be fitted on %d samples: %w",
			len(values), series.ErrInsufficientData)
	}
	return best, nil
}
