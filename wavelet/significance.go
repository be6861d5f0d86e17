package wavelet

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-tsa/spectral"
)

// Significance marks scalogram cells whose power exceeds the AR(1)
// red-noise background at the given confidence (e.g. 0.95). The AR(1)
// coefficient is fitted to values (normally the series the scalogram
// was computed from); each scale is compared against the theoretical
// red-noise power at its equivalent Fourier frequency scaled by the
// 2-degree chi-squared quantile. Cells inside the cone of influence are
// marked like any other; consult COI before trusting them.
func (sc *Scalogram) Significance(values []float64, confidence float64) error {
	if confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("wavelet: confidence must be in (0, 1): %v", confidence)
	}

	phi, variance, err := spectral.FitAR1(values)
	if err != nil {
		return err
	}

	freqs := make([]float64, len(sc.Periods))
	for j, p := range sc.Periods {
		freqs[j] = 1 / p
	}
	background := spectral.RedNoisePower(phi, freqs, sc.dt)

	chi := distuv.ChiSquared{K: 2}
	quantile := chi.Quantile(confidence) / 2

	sc.Significant = make([][]bool, len(sc.Coeffs))
	for j, row := range sc.Coeffs {
		threshold := variance * background[j] * quantile
		marks := make([]bool, len(row))
		for i, c := range row {
			re, im := real(c), imag(c)
			marks[i] = re*re+im*im > threshold
		}
		sc.Significant[j] = marks
	}
	return nil
}

// PeakScale returns the index of the scale with the largest total power
// outside the cone of influence, or -1 when no cell qualifies.
func (sc *Scalogram) PeakScale() int {
	best := -1
	var bestPower float64
	for j, row := range sc.Coeffs {
		var sum float64
		cells := 0
		for i, c := range row {
			if sc.Periods[j] >= sc.COI[i] {
				continue
			}
			re, im := real(c), imag(c)
			sum += re*re + im*im
			cells++
		}
		if cells == 0 {
			continue
		}
		avg := sum / float64(cells)
		if best < 0 || avg > bestPower {
			best = j
			bestPower = avg
		}
	}
	return best
}
