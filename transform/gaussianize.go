package transform

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-tsa/series"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Gaussianize maps values monotonically onto a standard normal
// distribution via the empirical rank: rank r of N valid values maps to
// the CDF position r/N - 1/(2N), which is pushed through the probit
// (inverse standard-normal CDF). Ties receive average ranks. Missing
// values (NaN) pass through unchanged.
func Gaussianize(values []float64) ([]float64, error) {
	ranks, nValid := Ranks(values)
	if nValid < 2 {
		return nil, fmt.Errorf("transform: gaussianize needs at least 2 valid values, have %d: %w",
			nValid, series.ErrInsufficientData)
	}

	out := make([]float64, len(values))
	n := float64(nValid)
	for i, r := range ranks {
		if math.IsNaN(r) {
			out[i] = math.NaN()
			continue
		}
		p := r/n - 1/(2*n)
		out[i] = stdNormal.Quantile(p)
	}
	return out, nil
}

// GaussianizeSeries applies Gaussianize to the values of s, returning a
// new Series on the same time axis.
func GaussianizeSeries(s series.Series) (series.Series, error) {
	values, err := Gaussianize(s.Values)
	if err != nil {
		return series.Series{}, err
	}
	return series.New(append([]float64(nil), s.Times...), values)
}

// GaussianizeColumns applies Gaussianize to each column independently.
func GaussianizeColumns(cols [][]float64) ([][]float64, error) {
	out := make([][]float64, len(cols))
	for i, col := range cols {
		g, err := Gaussianize(col)
		if err != nil {
			return nil, fmt.Errorf("transform: column %d: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}

// Standardize returns (values - mean) / stddev over the valid entries.
// Missing values pass through unchanged.
func Standardize(values []float64) ([]float64, error) {
	var sum float64
	nValid := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		nValid++
	}
	if nValid < 2 {
		return nil, fmt.Errorf("transform: standardize needs at least 2 valid values, have %d: %w",
			nValid, series.ErrInsufficientData)
	}
	mean := sum / float64(nValid)

	var ss float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(nValid-1))
	if sd == 0 {
		return nil, fmt.Errorf("transform: standardize of constant input: %w", series.ErrNumericalInstability)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / sd
	}
	return out, nil
}

// Ranks assigns 1-based ranks to the valid entries of values, averaging
// ranks over ties. Missing entries receive NaN ranks. The second return
// is the number of valid entries.
func Ranks(values []float64) ([]float64, int) {
	type pair struct {
		idx int
		v   float64
	}
	valid := make([]pair, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, pair{i, v})
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].v < valid[j].v })

	ranks := make([]float64, len(values))
	for i := range ranks {
		ranks[i] = math.NaN()
	}

	// Walk runs of equal values and assign each the average rank.
	for i := 0; i < len(valid); {
		j := i
		for j+1 < len(valid) && valid[j+1].v == valid[i].v {
			j++
		}
		avg := float64(i+j+2) / 2 // mean of 1-based ranks i+1 .. j+1
		for k := i; k <= j; k++ {
			ranks[valid[k].idx] = avg
		}
		i = j + 1
	}
	return ranks, len(valid)
}
