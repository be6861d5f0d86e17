package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-tsa/series"
)

// FitAR1 estimates the lag-1 autocorrelation coefficient of values by
// the method of moments (ratio of the lag-1 autocovariance to the
// variance) and returns it with the sample variance. The estimate is
// clamped just inside (-1, 1) so downstream spectra stay finite.
func FitAR1(values []float64) (phi, variance float64, err error) {
	n := len(values)
	if n < 3 {
		return 0, 0, fmt.Errorf("spectral: ar1 fit needs at least 3 samples, have %d: %w",
			n, series.ErrInsufficientData)
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var c0, c1 float64
	for i, v := range values {
		d := v - mean
		c0 += d * d
		if i > 0 {
			c1 += d * (values[i-1] - mean)
		}
	}
	if c0 == 0 {
		return 0, 0, fmt.Errorf("spectral: ar1 fit of constant input: %w", series.ErrNumericalInstability)
	}

	phi = c1 / c0
	const clamp = 1 - 1e-6
	if phi > clamp {
		phi = clamp
	} else if phi < -clamp {
		phi = -clamp
	}
	return phi, c0 / float64(n-1), nil
}

// RedNoisePower evaluates the normalized theoretical AR(1) spectrum
// (1 - phi^2) / (1 + phi^2 - 2*phi*cos(2*pi*f*dt)) at each frequency.
func RedNoisePower(phi float64, freqs []float64, dt float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = (1 - phi*phi) / (1 + phi*phi - 2*phi*math.Cos(2*math.Pi*f*dt))
	}
	return out
}

// RedNoiseSignificance attaches an AR(1) red-noise confidence curve to
// spec. The AR(1) coefficient is fitted to values, the theoretical
// spectrum is scaled so its mean matches the estimate's mean power, and
// the chi-squared upper-tail quantile at the given confidence (e.g.
// 0.95) with 2*tapers degrees of freedom marks the threshold at each
// frequency. The returned Spectrum shares the frequency grid of spec.
func RedNoiseSignificance(spec Spectrum, values []float64, dt, confidence float64, tapers int) (Spectrum, error) {
	if confidence <= 0 || confidence >= 1 {
		return Spectrum{}, fmt.Errorf("spectral: confidence must be in (0, 1): %v", confidence)
	}
	if tapers < 1 {
		return Spectrum{}, fmt.Errorf("spectral: taper count must be >= 1: %d", tapers)
	}
	if spec.Len() == 0 {
		return Spectrum{}, fmt.Errorf("spectral: empty spectrum: %w", series.ErrInsufficientData)
	}

	phi, _, err := FitAR1(values)
	if err != nil {
		return Spectrum{}, err
	}

	theory := RedNoisePower(phi, spec.Frequency, dt)

	var meanPower, meanTheory float64
	for i := range spec.Power {
		meanPower += spec.Power[i]
		meanTheory += theory[i]
	}
	scale := meanPower / meanTheory

	dof := float64(2 * tapers)
	chi := distuv.ChiSquared{K: dof}
	q := chi.Quantile(confidence) / dof

	sig := make([]float64, len(theory))
	for i := range sig {
		sig[i] = theory[i] * scale * q
	}

	out := spec
	out.Significance = sig
	return out, nil
}
