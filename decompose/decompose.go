package decompose

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-tsa/series"
)

const defaultRobustIterations = 2

// Result holds an additive decomposition. For every method
// Trend[i] + Seasonal[i] + Residual[i] == input[i].
type Result struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
}

// Option configures the STL decomposition.
type Option func(*stlConfig)

type stlConfig struct {
	robustIterations int
}

// WithRobustIterations sets the number of robustness passes (default 2).
// Each pass downweights outlying residuals with the Tukey biweight
// before refitting the seasonal and trend components.
func WithRobustIterations(k int) Option {
	return func(c *stlConfig) {
		if k > 0 {
			c.robustIterations = k
		}
	}
}

// STL decomposes an evenly sampled series with a strictly periodic
// seasonal cycle of the given integer period. The seasonal component is
// estimated by weighted within-phase means, the trend by a weighted
// centered moving average of the deseasonalized series, and the
// residual is recomputed from the final components so the decomposition
// reconstructs the input exactly.
func STL(values []float64, period int, opts ...Option) (Result, error) {
	cfg := stlConfig{robustIterations: defaultRobustIterations}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(values)
	if period < 2 {
		return Result{}, fmt.Errorf("decompose: period must be >= 2: %d", period)
	}
	if n < 2*period {
		return Result{}, fmt.Errorf("decompose: stl needs at least %d samples for period %d, have %d: %w",
			2*period, period, n, series.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return Result{}, fmt.Errorf("decompose: missing value at index %d; interpolate before decomposing", i)
		}
	}

	trend := make([]float64, n)
	seasonal := make([]float64, n)
	residual := make([]float64, n)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	detrended := make([]float64, n)
	deseasonalized := make([]float64, n)
	pattern := make([]float64, period)
	patternWeight := make([]float64, period)

	trendWindow := period
	if trendWindow%2 == 0 {
		trendWindow++
	}
	halfWindow := trendWindow / 2

	for iter := 0; iter < cfg.robustIterations; iter++ {
		for i := range values {
			detrended[i] = values[i] - trend[i]
		}

		// Seasonal: weighted mean per phase, centered to zero mean so the
		// cycle carries no offset the trend should own.
		for i := range pattern {
			pattern[i] = 0
			patternWeight[i] = 0
		}
		for i := range detrended {
			phase := i % period
			pattern[phase] += detrended[i] * weights[i]
			patternWeight[phase] += weights[i]
		}
		var patternMean float64
		for i := range pattern {
			if patternWeight[i] > 0 {
				pattern[i] /= patternWeight[i]
			}
			patternMean += pattern[i]
		}
		patternMean /= float64(period)
		for i := range pattern {
			pattern[i] -= patternMean
		}
		for i := range seasonal {
			seasonal[i] = pattern[i%period]
		}

		// Trend: triangular weighted moving average of the
		// deseasonalized series, shrunk near the edges.
		for i := range values {
			deseasonalized[i] = values[i] - seasonal[i]
		}
		for i := range trend {
			var sum, weightSum float64
			for j := -halfWindow; j <= halfWindow; j++ {
				idx := i + j
				if idx < 0 || idx >= n {
					continue
				}
				w := weights[idx] * (1 - math.Abs(float64(j))/float64(halfWindow+1))
				sum += deseasonalized[idx] * w
				weightSum += w
			}
			if weightSum > 0 {
				trend[i] = sum / weightSum
			}
		}

		for i := range residual {
			residual[i] = values[i] - trend[i] - seasonal[i]
		}

		if iter == cfg.robustIterations-1 {
			break
		}

		// Tukey biweight on |residual| relative to 6*MAD.
		abs := make([]float64, n)
		for i, r := range residual {
			abs[i] = math.Abs(r)
		}
		mad, err := stats.Median(abs)
		if err != nil || mad == 0 {
			continue
		}
		h := 6 * mad
		for i := range weights {
			u := abs[i] / h
			if u < 1 {
				weights[i] = (1 - u*u) * (1 - u*u)
			} else {
				weights[i] = 0
			}
		}
	}

	// Final residual from the final components keeps the reconstruction
	// identity exact.
	for i := range residual {
		residual[i] = values[i] - trend[i] - seasonal[i]
	}
	return Result{Trend: trend, Seasonal: seasonal, Residual: residual}, nil
}

// Linear fits an ordinary least-squares line against time and reports it
// as the trend. Missing values are skipped in the fit; the line is
// evaluated on the full time axis, so only the residual stays NaN at
// missing samples. The seasonal component is zero.
func Linear(times, values []float64) (Result, error) {
	if len(times) != len(values) {
		return Result{}, fmt.Errorf("decompose: %d timestamps vs %d values: %w",
			len(times), len(values), series.ErrDimensionMismatch)
	}

	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, values[i])
	}
	if len(xs) < 2 {
		return Result{}, fmt.Errorf("decompose: linear detrend needs at least 2 valid samples, have %d: %w",
			len(xs), series.ErrInsufficientData)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(slope) {
		return Result{}, fmt.Errorf("decompose: degenerate regression: %w", series.ErrNumericalInstability)
	}

	n := len(values)
	trend := make([]float64, n)
	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range values {
		trend[i] = intercept + slope*times[i]
		residual[i] = values[i] - trend[i]
	}
	return Result{Trend: trend, Seasonal: seasonal, Residual: residual}, nil
}
