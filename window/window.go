package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	denom := float64(length - 1)
	if cfg.periodic {
		denom = float64(length)
	}
	if denom == 0 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / denom
		out[i] = eval(t, x)
	}
	return out
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	coeffs := Generate(t, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoeffs multiplies samples by precomputed coefficients into out.
// All slices must share the same length.
func ApplyCoeffs(out, samples, coeffs []float64) {
	vecmath.MulBlock(out, samples, coeffs)
}

// SineTapers returns count orthonormal sine tapers of the given length.
// The k-th taper (0-based) is sqrt(2/(N+1)) * sin(pi*(k+1)*(n+1)/(N+1)),
// normalized to unit energy. These are a standard low-cost alternative
// to DPSS tapers for multitaper spectral estimation.
func SineTapers(length, count int) [][]float64 {
	if length <= 0 || count <= 0 {
		return nil
	}
	tapers := make([][]float64, count)
	norm := math.Sqrt(2 / float64(length+1))
	for k := range tapers {
		taper := make([]float64, length)
		w := math.Pi * float64(k+1) / float64(length+1)
		for n := range taper {
			taper[n] = norm * math.Sin(w*float64(n+1))
		}
		tapers[k] = taper
	}
	return tapers
}
