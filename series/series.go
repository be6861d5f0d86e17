package series

import (
	"fmt"
	"math"
)

// evenGridRelTol is the relative tolerance used when deciding whether
// timestamps form an even grid.
const evenGridRelTol = 1e-6

// Series is an ordered sequence of (timestamp, value) pairs.
//
// Timestamps are real-valued in whatever unit the caller works in
// (decimal years, seconds, kyr) and must be strictly increasing.
// Values may contain NaN, which marks a missing observation.
type Series struct {
	Times  []float64
	Values []float64
}

// New validates times and values and returns a Series referencing them.
// Times must be strictly increasing and match values in length.
func New(times, values []float64) (Series, error) {
	if len(times) == 0 {
		return Series{}, fmt.Errorf("series: empty input: %w", ErrInsufficientData)
	}
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("series: %d timestamps vs %d values: %w",
			len(times), len(values), ErrDimensionMismatch)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return Series{}, fmt.Errorf("series: timestamps not strictly increasing at index %d (%v >= %v)",
				i, times[i-1], times[i])
		}
	}
	return Series{Times: times, Values: values}, nil
}

// FromValues builds a Series on the implicit grid start + i*step.
func FromValues(values []float64, start, step float64) (Series, error) {
	if step <= 0 || math.IsNaN(step) {
		return Series{}, fmt.Errorf("series: step must be > 0: %v", step)
	}
	times := make([]float64, len(values))
	for i := range times {
		times[i] = start + float64(i)*step
	}
	return New(times, values)
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Times) }

// Clone returns a deep copy.
func (s Series) Clone() Series {
	return Series{
		Times:  append([]float64(nil), s.Times...),
		Values: append([]float64(nil), s.Values...),
	}
}

// Slice returns the half-open sub-series [i, j) sharing backing storage.
func (s Series) Slice(i, j int) Series {
	return Series{Times: s.Times[i:j], Values: s.Values[i:j]}
}

// Step returns the grid step when the timestamps are evenly spaced.
// Unevenly sampled series return an error naming the first offending gap.
func (s Series) Step() (float64, error) {
	if s.Len() < 2 {
		return 0, fmt.Errorf("series: need at least 2 samples for a step: %w", ErrInsufficientData)
	}
	step := s.Times[1] - s.Times[0]
	for i := 2; i < s.Len(); i++ {
		d := s.Times[i] - s.Times[i-1]
		if math.Abs(d-step) > evenGridRelTol*math.Max(math.Abs(step), math.Abs(d)) {
			return 0, fmt.Errorf("series: uneven sampling at index %d (gap %v, expected %v)", i, d, step)
		}
	}
	return step, nil
}

// IsMissing reports whether the value at index i is a missing marker.
func (s Series) IsMissing(i int) bool { return math.IsNaN(s.Values[i]) }

// CountValid returns the number of non-missing values.
func (s Series) CountValid() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// ValidSpan returns the index range [first, last] of the outermost
// non-missing values. Runs of missing values strictly before or after
// that span are never filled by interpolation; callers trim to the span
// before resampling.
func (s Series) ValidSpan() (first, last int, err error) {
	first = -1
	for i := range s.Values {
		if !math.IsNaN(s.Values[i]) {
			first = i
			break
		}
	}
	if first < 0 {
		return 0, 0, fmt.Errorf("series: all values missing: %w", ErrInsufficientData)
	}
	for i := len(s.Values) - 1; i >= first; i-- {
		if !math.IsNaN(s.Values[i]) {
			return first, i, nil
		}
	}
	return first, first, nil
}

// TrimMissing returns the sub-series spanning the outermost valid values.
func (s Series) TrimMissing() (Series, error) {
	first, last, err := s.ValidSpan()
	if err != nil {
		return Series{}, err
	}
	return s.Slice(first, last+1), nil
}
