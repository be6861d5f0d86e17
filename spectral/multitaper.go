package spectral

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/window"
)

const defaultTapers = 5

// Option configures the multitaper estimator.
type Option func(*mtConfig)

type mtConfig struct {
	tapers int
}

// WithTapers sets the number of sine tapers to average (default 5).
func WithTapers(k int) Option {
	return func(c *mtConfig) {
		if k > 0 {
			c.tapers = k
		}
	}
}

// Multitaper estimates the one-sided power spectral density of an evenly
// sampled series by averaging sine-tapered eigenspectra. dt is the
// sampling step in time units; frequencies are returned in cycles per
// time unit. The DC bin is excluded.
func Multitaper(values []float64, dt float64, opts ...Option) (Spectrum, error) {
	cfg := mtConfig{tapers: defaultTapers}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(values)
	if n < 2*cfg.tapers {
		return Spectrum{}, fmt.Errorf("spectral: multitaper needs at least %d samples for %d tapers, have %d: %w",
			2*cfg.tapers, cfg.tapers, n, series.ErrInsufficientData)
	}
	if dt <= 0 || math.IsNaN(dt) {
		return Spectrum{}, fmt.Errorf("spectral: sampling step must be > 0: %v", dt)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return Spectrum{}, fmt.Errorf("spectral: missing value at index %d; interpolate before estimating", i)
		}
	}

	demeaned := demean(values)
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	tapers := window.SineTapers(n, cfg.tapers)

	nBins := fftSize / 2
	acc := make([]float64, nBins)
	power := make([]float64, nBins)
	re := make([]float64, nBins)
	im := make([]float64, nBins)
	tapered := make([]float64, n)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)

	for _, taper := range tapers {
		window.ApplyCoeffs(tapered, demeaned, taper)

		for i := range in {
			in[i] = 0
		}
		for i, v := range tapered {
			in[i] = complex(v, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return Spectrum{}, fmt.Errorf("spectral: forward FFT failed: %w", err)
		}

		// Bins 1..fftSize/2: DC excluded.
		for i := 0; i < nBins; i++ {
			re[i] = real(out[i+1])
			im[i] = imag(out[i+1])
		}
		vecmath.Power(power, re, im)
		for i := range acc {
			acc[i] += power[i]
		}
	}

	// Sine tapers have unit energy, so each eigenspectrum scaled by
	// 2*dt is a one-sided PSD; averaging over tapers reduces variance.
	scale := 2 * dt / float64(len(tapers))
	freq := make([]float64, nBins)
	period := make([]float64, nBins)
	for i := range acc {
		acc[i] *= scale
		freq[i] = float64(i+1) / (float64(fftSize) * dt)
		period[i] = 1 / freq[i]
	}

	return Spectrum{Frequency: freq, Period: period, Power: acc}, nil
}

func demean(values []float64) []float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - mean
	}
	return out
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
