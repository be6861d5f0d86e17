package spectral

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsa/series"
)

// Normalization selects the Lomb-Scargle power convention.
type Normalization int

const (
	// NormPress divides power by the residual variance of the input
	// (the Horne & Baliunas convention), so white noise has unit
	// expected power per frequency.
	NormPress Normalization = iota

	// NormStandard leaves power in squared-amplitude units.
	NormStandard
)

// LombScargle computes the Lomb-Scargle periodogram of an unevenly
// sampled series. Timestamps must be strictly increasing; missing
// values (NaN) are skipped. oversample stretches the frequency grid
// (typical values 2-8); the grid runs from 1/(oversample*T) up to the
// average Nyquist frequency n/(2T). DC is excluded by construction.
func LombScargle(times, values []float64, oversample float64, norm Normalization) (Spectrum, error) {
	if len(times) != len(values) {
		return Spectrum{}, fmt.Errorf("spectral: %d timestamps vs %d values: %w",
			len(times), len(values), series.ErrDimensionMismatch)
	}
	if oversample < 1 {
		return Spectrum{}, fmt.Errorf("spectral: oversampling factor must be >= 1: %v", oversample)
	}

	// Drop missing pairs; the estimator needs no even grid.
	t := make([]float64, 0, len(times))
	y := make([]float64, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) {
			continue
		}
		t = append(t, times[i])
		y = append(y, values[i])
	}
	n := len(t)
	if n < 4 {
		return Spectrum{}, fmt.Errorf("spectral: lomb-scargle needs at least 4 valid samples, have %d: %w",
			n, series.ErrInsufficientData)
	}
	for i := 1; i < n; i++ {
		if !(t[i] > t[i-1]) {
			return Spectrum{}, fmt.Errorf("spectral: timestamps not strictly increasing at index %d", i)
		}
	}

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for i := range y {
		y[i] -= mean
		variance += y[i] * y[i]
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return Spectrum{}, fmt.Errorf("spectral: lomb-scargle of constant input: %w", series.ErrNumericalInstability)
	}

	span := t[n-1] - t[0]
	df := 1 / (oversample * span)
	fmax := float64(n) / (2 * span)
	nf := int(fmax / df)
	if nf < 1 {
		return Spectrum{}, fmt.Errorf("spectral: degenerate frequency grid (span %v, oversample %v): %w",
			span, oversample, series.ErrInsufficientData)
	}

	freq := make([]float64, nf)
	period := make([]float64, nf)
	power := make([]float64, nf)

	for k := 0; k < nf; k++ {
		f := df * float64(k+1)
		w := 2 * math.Pi * f

		// Time offset tau makes the sine and cosine terms orthogonal.
		var s2, c2 float64
		for _, ti := range t {
			s2 += math.Sin(2 * w * ti)
			c2 += math.Cos(2 * w * ti)
		}
		tau := math.Atan2(s2, c2) / (2 * w)

		var cy, cc, sy, ss float64
		for i, ti := range t {
			arg := w * (ti - tau)
			c := math.Cos(arg)
			s := math.Sin(arg)
			cy += y[i] * c
			cc += c * c
			sy += y[i] * s
			ss += s * s
		}

		p := 0.5 * (cy*cy/cc + sy*sy/ss)
		if norm == NormPress {
			p /= variance
		}

		freq[k] = f
		period[k] = 1 / f
		power[k] = p
	}

	return Spectrum{Frequency: freq, Period: period, Power: power}, nil
}
