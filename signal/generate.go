package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// ar1BurnIn is the number of warm-up samples discarded so the AR(1)
// generator starts from its stationary distribution.
const ar1BurnIn = 100

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	step float64
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithStep sets the sampling step (time units per sample).
func WithStep(step float64) Option {
	return func(g *Generator) {
		if step > 0 {
			g.step = step
		}
	}
}

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
// Defaults: unit step, seed 1.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{step: 1, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Step returns the configured sampling step.
func (g *Generator) Step() float64 { return g.step }

// Times returns the time axis start + i*step for n samples.
func (g *Generator) Times(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*g.step
	}
	return out
}

// Sine generates amplitude*sin(2*pi*freq*t) sampled on the generator grid.
// freq is in cycles per time unit.
func (g *Generator) Sine(freq, amplitude float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("signal: sine samples must be > 0: %d", n)
	}
	if freq <= 0 {
		return nil, fmt.Errorf("signal: sine frequency must be > 0: %f", freq)
	}
	out := make([]float64, n)
	w := 2 * math.Pi * freq * g.step
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out, nil
}

// Ramp generates intercept + slope*t sampled on the generator grid.
func (g *Generator) Ramp(slope, intercept float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("signal: ramp samples must be > 0: %d", n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = intercept + slope*float64(i)*g.step
	}
	return out, nil
}

// Noise generates Gaussian white noise with the given standard deviation.
func (g *Generator) Noise(sigma float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", n)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("signal: noise sigma must be >= 0: %f", sigma)
	}
	rng := rand.New(rand.NewSource(g.seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}
	return out, nil
}

// AR1 generates a first-order autoregressive (red noise) process
// x[t] = phi*x[t-1] + e[t] with Gaussian innovations of standard
// deviation sigma. |phi| must be < 1 for stationarity. A burn-in period
// is discarded so the output starts near the stationary distribution.
func (g *Generator) AR1(phi, sigma float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("signal: ar1 samples must be > 0: %d", n)
	}
	if math.Abs(phi) >= 1 {
		return nil, fmt.Errorf("signal: ar1 coefficient must satisfy |phi| < 1: %f", phi)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("signal: ar1 sigma must be >= 0: %f", sigma)
	}
	return AR1(phi, sigma, n, rand.New(rand.NewSource(g.seed))), nil
}

// AR1 generates an AR(1) process using the supplied random source.
// It is the shared kernel for the seeded generator and the Monte Carlo
// surrogate loops, which drive many realizations from one rand.Rand.
func AR1(phi, sigma float64, n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	x := 0.0
	for i := -ar1BurnIn; i < n; i++ {
		x = phi*x + sigma*rng.NormFloat64()
		if i >= 0 {
			out[i] = x
		}
	}
	return out
}

// Add returns the elementwise sum of the given signals.
// All signals must share the same length.
func Add(signals ...[]float64) ([]float64, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("signal: add requires at least one input")
	}
	n := len(signals[0])
	for i, s := range signals {
		if len(s) != n {
			return nil, fmt.Errorf("signal: add length mismatch at input %d: %d != %d", i, len(s), n)
		}
	}
	out := make([]float64, n)
	for _, s := range signals {
		for i, v := range s {
			out[i] += v
		}
	}
	return out, nil
}
