package filter

import (
	"fmt"

	"github.com/cwbudde/algo-tsa/series"
)

// Apply runs the filter described by sp over values with zero phase
// distortion: the cascade is applied forward, then backward, so the
// output is aligned sample-for-sample with the input. The input is
// extended at both ends by odd reflection to suppress edge transients.
func Apply(values []float64, sp Spec, sampleRate float64) ([]float64, error) {
	if err := sp.Validate(sampleRate); err != nil {
		return nil, err
	}

	switch sp.Kind {
	case KindLowpass:
		return filtfilt(values, butterworthLP(sp.Cutoff, sp.Order, sampleRate))
	case KindHighpass:
		return filtfilt(values, butterworthHP(sp.Cutoff, sp.Order, sampleRate))
	case KindBandpass:
		return filtfilt(values, butterworthBand(sp.Low, sp.High, sp.Order, sampleRate))
	case KindBandstop:
		band, err := filtfilt(values, butterworthBand(sp.Low, sp.High, sp.Order, sampleRate))
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(values))
		for i := range out {
			out[i] = values[i] - band[i]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("filter: unknown kind %d", int(sp.Kind))
	}
}

// Lowpass is shorthand for Apply with a lowpass Spec.
func Lowpass(values []float64, cutoff float64, order int, sampleRate float64) ([]float64, error) {
	return Apply(values, Spec{Kind: KindLowpass, Order: order, Cutoff: cutoff}, sampleRate)
}

// Highpass is shorthand for Apply with a highpass Spec.
func Highpass(values []float64, cutoff float64, order int, sampleRate float64) ([]float64, error) {
	return Apply(values, Spec{Kind: KindHighpass, Order: order, Cutoff: cutoff}, sampleRate)
}

// Bandpass is shorthand for Apply with a bandpass Spec.
func Bandpass(values []float64, low, high float64, order int, sampleRate float64) ([]float64, error) {
	return Apply(values, Spec{Kind: KindBandpass, Order: order, Low: low, High: high}, sampleRate)
}

// Notch is shorthand for Apply with a bandstop Spec; the band-reject
// output is original - bandpass(original).
func Notch(values []float64, low, high float64, order int, sampleRate float64) ([]float64, error) {
	return Apply(values, Spec{Kind: KindBandstop, Order: order, Low: low, High: high}, sampleRate)
}

// HighpassBySubtraction computes original - lowpass(original). Together
// with Lowpass at the same cutoff it reconstructs the input exactly.
func HighpassBySubtraction(values []float64, cutoff float64, order int, sampleRate float64) ([]float64, error) {
	low, err := Lowpass(values, cutoff, order, sampleRate)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = values[i] - low[i]
	}
	return out, nil
}

// filtfilt applies the cascade forward and backward over an odd-reflected
// extension of values.
func filtfilt(values []float64, sections []Coefficients) ([]float64, error) {
	n := len(values)
	// Each biquad contributes two poles; three time constants of padding
	// per pole is enough for the transient to decay.
	pad := 3 * 2 * len(sections)
	if n <= pad {
		return nil, fmt.Errorf("filter: series length %d too short for order (needs > %d samples): %w",
			n, pad, series.ErrInsufficientData)
	}

	ext := oddReflect(values, pad)

	chain := NewChain(sections)
	chain.ProcessBlock(ext)
	reverse(ext)
	chain.Reset()
	chain.ProcessBlock(ext)
	reverse(ext)

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])
	return out, nil
}

// oddReflect extends values by pad samples at each end, reflected
// through the endpoint value so the extension is continuous in both
// value and slope.
func oddReflect(values []float64, pad int) []float64 {
	n := len(values)
	ext := make([]float64, n+2*pad)
	for i := 0; i < pad; i++ {
		ext[i] = 2*values[0] - values[pad-i]
		ext[pad+n+i] = 2*values[n-1] - values[n-2-i]
	}
	copy(ext[pad:], values)
	return ext
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
