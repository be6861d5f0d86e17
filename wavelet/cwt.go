package wavelet

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-tsa/series"
)

const (
	defaultOmega0 = 6.0
	defaultDj     = 0.25
	minSamples    = 8
)

// Config controls the scale ladder and mother wavelet.
type Config struct {
	// Omega0 is the Morlet center frequency (default 6, which makes
	// scale and Fourier period nearly interchangeable).
	Omega0 float64
	// Dj is the sub-octave resolution of the geometric scale ladder
	// (default 0.25, four scales per octave).
	Dj float64
	// S0 is the smallest scale (default 2*dt).
	S0 float64
	// MaxScale caps the ladder (default half the record span).
	MaxScale float64
}

func (c Config) withDefaults(n int, dt float64) Config {
	if c.Omega0 <= 0 {
		c.Omega0 = defaultOmega0
	}
	if c.Dj <= 0 {
		c.Dj = defaultDj
	}
	if c.S0 <= 0 {
		c.S0 = 2 * dt
	}
	if c.MaxScale <= 0 {
		c.MaxScale = float64(n) * dt / 2
	}
	return c
}

// fourierFactor converts scale to equivalent Fourier period.
func (c Config) fourierFactor() float64 {
	return 4 * math.Pi / (c.Omega0 + math.Sqrt(2+c.Omega0*c.Omega0))
}

// Scalogram is the time-scale decomposition of one series. Coeffs is
// indexed [scale][time]. COI holds, per time step, the shortest period
// already affected by the record's edges; entries of Significant are
// only meaningful where Periods[j] < COI[i].
type Scalogram struct {
	Times       []float64
	Scales      []float64
	Periods     []float64
	Coeffs      [][]complex128
	COI         []float64
	Significant [][]bool

	dt     float64
	config Config
}

// Power returns |W|^2 indexed like Coeffs.
func (sc *Scalogram) Power() [][]float64 {
	out := make([][]float64, len(sc.Coeffs))
	for j, row := range sc.Coeffs {
		p := make([]float64, len(row))
		for i, c := range row {
			re, im := real(c), imag(c)
			p[i] = re*re + im*im
		}
		out[j] = p
	}
	return out
}

// CWT computes the continuous Morlet wavelet transform of an evenly
// sampled series. The series is demeaned and zero-padded to the next
// power of two; the convolution runs in the frequency domain once per
// scale. Scales grow geometrically from cfg.S0 by factors of 2^Dj.
func CWT(values []float64, dt float64, cfg Config) (*Scalogram, error) {
	n := len(values)
	if n < minSamples {
		return nil, fmt.Errorf("wavelet: cwt needs at least %d samples, have %d: %w",
			minSamples, n, series.ErrInsufficientData)
	}
	if dt <= 0 || math.IsNaN(dt) {
		return nil, fmt.Errorf("wavelet: sampling step must be > 0: %v", dt)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("wavelet: missing value at index %d; interpolate before transforming", i)
		}
	}
	cfg = cfg.withDefaults(n, dt)
	if cfg.MaxScale < cfg.S0 {
		return nil, fmt.Errorf("wavelet: max scale %v below smallest scale %v", cfg.MaxScale, cfg.S0)
	}

	scales := scaleLadder(cfg)
	factor := cfg.fourierFactor()
	periods := make([]float64, len(scales))
	for j, s := range scales {
		periods[j] = factor * s
	}

	fftSize := nextPowerOf2(n)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("wavelet: failed to create FFT plan: %w", err)
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	in := make([]complex128, fftSize)
	for i, v := range values {
		in[i] = complex(v-mean, 0)
	}
	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("wavelet: forward FFT failed: %w", err)
	}

	// Angular frequencies of the positive-frequency bins. The analytic
	// Morlet response is zero at and below DC, so negative bins drop out.
	omega := make([]float64, fftSize/2+1)
	for k := range omega {
		omega[k] = 2 * math.Pi * float64(k) / (float64(fftSize) * dt)
	}

	coeffs := make([][]complex128, len(scales))
	product := make([]complex128, fftSize)
	timeDomain := make([]complex128, fftSize)
	norm := math.Pow(math.Pi, -0.25)

	for j, s := range scales {
		for i := range product {
			product[i] = 0
		}
		amp := norm * math.Sqrt(2*math.Pi*s/dt)
		for k := 1; k < len(omega); k++ {
			arg := s*omega[k] - cfg.Omega0
			product[k] = spectrum[k] * complex(amp*math.Exp(-0.5*arg*arg), 0)
		}
		if err := plan.Inverse(timeDomain, product); err != nil {
			return nil, fmt.Errorf("wavelet: inverse FFT failed: %w", err)
		}
		row := make([]complex128, n)
		copy(row, timeDomain[:n])
		coeffs[j] = row
	}

	times := make([]float64, n)
	coi := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
		edge := i
		if n-1-i < edge {
			edge = n - 1 - i
		}
		// e-folding time of the Morlet envelope is sqrt(2)*s.
		coi[i] = factor * float64(edge) * dt / math.Sqrt2
	}

	return &Scalogram{
		Times:   times,
		Scales:  scales,
		Periods: periods,
		Coeffs:  coeffs,
		COI:     coi,
		dt:      dt,
		config:  cfg,
	}, nil
}

func scaleLadder(cfg Config) []float64 {
	octaves := math.Log2(cfg.MaxScale / cfg.S0)
	count := int(octaves/cfg.Dj) + 1
	scales := make([]float64, count)
	for j := range scales {
		scales[j] = cfg.S0 * math.Pow(2, float64(j)*cfg.Dj)
	}
	return scales
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
