package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-tsa/series"
)

// SSAResult extends Result with the singular-value mass fractions of
// the trajectory matrix. Shares[i] is the fraction of total squared
// singular value carried by component i and sums to 1.
type SSAResult struct {
	Result
	Shares []float64
}

// SSA performs singular spectrum analysis with embedding dimension L.
// The series is embedded into an L x (n-L+1) trajectory matrix of
// lagged windows, decomposed by SVD, and the selected components are
// summed and mapped back by diagonal averaging to form the trend. The
// residual is the remainder; the seasonal component is zero (select
// oscillatory component pairs into the trend to capture cycles).
func SSA(values []float64, l int, components []int) (SSAResult, error) {
	n := len(values)
	if l < 2 {
		return SSAResult{}, fmt.Errorf("decompose: embedding dimension must be >= 2: %d", l)
	}
	if n < 2*l {
		return SSAResult{}, fmt.Errorf("decompose: ssa needs at least %d samples for embedding %d, have %d: %w",
			2*l, l, n, series.ErrInsufficientData)
	}
	if len(components) == 0 {
		return SSAResult{}, fmt.Errorf("decompose: no components selected")
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return SSAResult{}, fmt.Errorf("decompose: missing value at index %d; interpolate before decomposing", i)
		}
	}

	k := n - l + 1
	traj := mat.NewDense(l, k, nil)
	for r := 0; r < l; r++ {
		for c := 0; c < k; c++ {
			traj.Set(r, c, values[r+c])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(traj, mat.SVDThin); !ok {
		return SSAResult{}, fmt.Errorf("decompose: svd failed to converge: %w", series.ErrNumericalInstability)
	}

	sigma := svd.Values(nil)
	rank := len(sigma)
	for _, c := range components {
		if c < 0 || c >= rank {
			return SSAResult{}, fmt.Errorf("decompose: component %d out of range [0, %d): %w",
				c, rank, series.ErrOutOfRange)
		}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Sum the selected rank-1 terms, then average each antidiagonal to
	// map the matrix back to a series.
	recon := mat.NewDense(l, k, nil)
	for _, c := range components {
		for r := 0; r < l; r++ {
			for j := 0; j < k; j++ {
				recon.Set(r, j, recon.At(r, j)+sigma[c]*u.At(r, c)*v.At(j, c))
			}
		}
	}

	trend := make([]float64, n)
	counts := make([]int, n)
	for r := 0; r < l; r++ {
		for j := 0; j < k; j++ {
			trend[r+j] += recon.At(r, j)
			counts[r+j]++
		}
	}
	for i := range trend {
		trend[i] /= float64(counts[i])
	}

	var total float64
	for _, s := range sigma {
		total += s * s
	}
	shares := make([]float64, rank)
	if total > 0 {
		for i, s := range sigma {
			shares[i] = s * s / total
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range values {
		residual[i] = values[i] - trend[i]
	}
	return SSAResult{
		Result: Result{Trend: trend, Seasonal: seasonal, Residual: residual},
		Shares: shares,
	}, nil
}
