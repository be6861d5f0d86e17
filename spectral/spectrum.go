package spectral

// Spectrum maps frequency to power. Frequencies are strictly positive
// and ascending; Period holds 1/Frequency for each bin. Significance,
// when present, carries the red-noise confidence threshold on the same
// frequency grid.
type Spectrum struct {
	Frequency    []float64
	Period       []float64
	Power        []float64
	Significance []float64
}

// Len returns the number of frequency bins.
func (sp Spectrum) Len() int { return len(sp.Frequency) }

// PeakIndex returns the bin with the largest power, or -1 when empty.
func (sp Spectrum) PeakIndex() int {
	best := -1
	for i, p := range sp.Power {
		if best < 0 || p > sp.Power[best] {
			best = i
		}
	}
	return best
}
