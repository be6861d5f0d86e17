package filter

import "math"

const defaultQ = 1 / math.Sqrt2

// butterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func butterworthLP(freq float64, order int, sampleRate float64) []Coefficients {
	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, lowpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLP(freq, sampleRate))
	}
	return sections
}

// butterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func butterworthHP(freq float64, order int, sampleRate float64) []Coefficients {
	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, highpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderHP(freq, sampleRate))
	}
	return sections
}

// butterworthBand designs a bandpass cascade as highpass(low) followed
// by lowpass(high), each of the given order.
func butterworthBand(low, high float64, order int, sampleRate float64) []Coefficients {
	sections := butterworthHP(low, order, sampleRate)
	return append(sections, butterworthLP(high, order, sampleRate)...)
}

// butterworthQ returns the quality factor for a Butterworth section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}
	return 1 / (2 * s)
}

// lowpassRBJ designs a lowpass biquad at freq with quality factor q.
func lowpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// highpassRBJ designs a highpass biquad at freq with quality factor q.
func highpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// firstOrderLP designs a first-order lowpass Butterworth section.
// Used for odd-order filters.
func firstOrderLP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)
	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

// firstOrderHP designs a first-order highpass Butterworth section.
// Used for odd-order filters.
func firstOrderHP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)
	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}
	}
	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// magnitudeAt evaluates the cascade magnitude response at freq.
func magnitudeAt(sections []Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	mag := 1.0
	for _, c := range sections {
		// H(e^jw) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
		numRe := c.B0 + c.B1*math.Cos(w) + c.B2*math.Cos(2*w)
		numIm := -c.B1*math.Sin(w) - c.B2*math.Sin(2*w)
		denRe := 1 + c.A1*math.Cos(w) + c.A2*math.Cos(2*w)
		denIm := -c.A1*math.Sin(w) - c.A2*math.Sin(2*w)
		mag *= math.Hypot(numRe, numIm) / math.Hypot(denRe, denIm)
	}
	return mag
}
