package resample

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-tsa/series"
)

// Resample interpolates s onto an even grid with the given step.
// The grid starts at the first valid sample and extends as far as the
// last valid sample allows. The result carries no missing values.
func Resample(s series.Series, step float64) (series.Series, error) {
	if step <= 0 || math.IsNaN(step) {
		return series.Series{}, fmt.Errorf("resample: step must be > 0: %v", step)
	}
	x, y, err := validPoints(s)
	if err != nil {
		return series.Series{}, err
	}
	return resampleOnto(x, y, x[0], x[len(x)-1], step)
}

// ResampleRange interpolates s onto an even grid over [start, end].
// Both bounds must lie inside the valid timestamp span.
func ResampleRange(s series.Series, start, end, step float64) (series.Series, error) {
	if step <= 0 || math.IsNaN(step) {
		return series.Series{}, fmt.Errorf("resample: step must be > 0: %v", step)
	}
	if !(end > start) {
		return series.Series{}, fmt.Errorf("resample: empty range [%v, %v]", start, end)
	}
	x, y, err := validPoints(s)
	if err != nil {
		return series.Series{}, err
	}
	if start < x[0] || end > x[len(x)-1] {
		return series.Series{}, fmt.Errorf("resample: range [%v, %v] outside valid span [%v, %v]: %w",
			start, end, x[0], x[len(x)-1], series.ErrOutOfRange)
	}
	return resampleOnto(x, y, start, end, step)
}

// At evaluates s by linear interpolation at arbitrary query timestamps.
// Any query outside the valid span fails with [series.ErrOutOfRange].
func At(s series.Series, query []float64) ([]float64, error) {
	x, y, err := validPoints(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(query))
	for i, q := range query {
		v, err := interpOne(x, y, q)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// validPoints extracts the non-missing (time, value) pairs of s.
// At least two valid samples are required to interpolate.
func validPoints(s series.Series) (x, y []float64, err error) {
	x = make([]float64, 0, s.Len())
	y = make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if math.IsNaN(s.Values[i]) {
			continue
		}
		x = append(x, s.Times[i])
		y = append(y, s.Values[i])
	}
	if len(x) < 2 {
		return nil, nil, fmt.Errorf("resample: need at least 2 valid samples, have %d: %w",
			len(x), series.ErrInsufficientData)
	}
	return x, y, nil
}

func resampleOnto(x, y []float64, start, end, step float64) (series.Series, error) {
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	times := make([]float64, n)
	values := make([]float64, n)
	for i := range times {
		q := start + float64(i)*step
		// Guard against floating-point overshoot on the last grid point.
		if q > end {
			q = end
		}
		v, err := interpOne(x, y, q)
		if err != nil {
			return series.Series{}, err
		}
		times[i] = q
		values[i] = v
	}
	return series.New(times, values)
}

func interpOne(x, y []float64, q float64) (float64, error) {
	if q < x[0] || q > x[len(x)-1] {
		return 0, fmt.Errorf("resample: query %v outside valid span [%v, %v]: %w",
			q, x[0], x[len(x)-1], series.ErrOutOfRange)
	}
	j := sort.SearchFloat64s(x, q)
	if j < len(x) && x[j] == q {
		return y[j], nil
	}
	x0, x1 := x[j-1], x[j]
	t := (q - x0) / (x1 - x0)
	return y[j-1] + t*(y[j]-y[j-1]), nil
}
