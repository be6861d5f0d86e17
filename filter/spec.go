package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidCutoff indicates a cutoff frequency outside (0, Nyquist).
var ErrInvalidCutoff = errors.New("filter: cutoff outside (0, Nyquist)")

// Kind identifies the filter response type.
type Kind int

const (
	KindLowpass Kind = iota
	KindHighpass
	KindBandpass
	KindBandstop
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLowpass:
		return "lowpass"
	case KindHighpass:
		return "highpass"
	case KindBandpass:
		return "bandpass"
	case KindBandstop:
		return "bandstop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec describes a Butterworth filter: response kind, order, and cutoff
// frequency or band edges, in cycles per time unit (the same unit as the
// sample rate).
type Spec struct {
	Kind   Kind
	Order  int
	Cutoff float64 // single cutoff for lowpass/highpass
	Low    float64 // lower band edge for bandpass/bandstop
	High   float64 // upper band edge for bandpass/bandstop
}

// Validate checks the spec against the sample rate.
func (sp Spec) Validate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("filter: sample rate must be > 0: %v", sampleRate)
	}
	if sp.Order < 1 {
		return fmt.Errorf("filter: order must be >= 1: %d", sp.Order)
	}
	nyquist := sampleRate / 2

	switch sp.Kind {
	case KindLowpass, KindHighpass:
		if sp.Cutoff <= 0 || sp.Cutoff >= nyquist {
			return fmt.Errorf("%w: cutoff %v, nyquist %v", ErrInvalidCutoff, sp.Cutoff, nyquist)
		}
	case KindBandpass, KindBandstop:
		if sp.Low <= 0 || sp.Low >= nyquist {
			return fmt.Errorf("%w: low edge %v, nyquist %v", ErrInvalidCutoff, sp.Low, nyquist)
		}
		if sp.High <= 0 || sp.High >= nyquist {
			return fmt.Errorf("%w: high edge %v, nyquist %v", ErrInvalidCutoff, sp.High, nyquist)
		}
		if !(sp.Low < sp.High) {
			return fmt.Errorf("%w: band edges must satisfy low < high (%v >= %v)",
				ErrInvalidCutoff, sp.Low, sp.High)
		}
	default:
		return fmt.Errorf("filter: unknown kind %d", int(sp.Kind))
	}
	return nil
}
