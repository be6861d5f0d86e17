package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-tsa/series"
)

// SavitzkyGolay smooths values with local polynomial least squares and
// reports the smooth as the trend. windowLen must be odd and larger
// than the polynomial order. Interior points use a centered window;
// near the edges the window is clipped one-sided so every sample gets a
// fit. The seasonal component is zero.
func SavitzkyGolay(values []float64, windowLen, order int) (Result, error) {
	n := len(values)
	if windowLen < 3 || windowLen%2 == 0 {
		return Result{}, fmt.Errorf("decompose: window length must be odd and >= 3: %d", windowLen)
	}
	if order < 0 || order >= windowLen {
		return Result{}, fmt.Errorf("decompose: polynomial order %d invalid for window %d", order, windowLen)
	}
	if n < windowLen {
		return Result{}, fmt.Errorf("decompose: savitzky-golay needs at least %d samples, have %d: %w",
			windowLen, n, series.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return Result{}, fmt.Errorf("decompose: missing value at index %d; interpolate before smoothing", i)
		}
	}

	half := windowLen / 2
	trend := make([]float64, n)
	seasonal := make([]float64, n)
	residual := make([]float64, n)

	for i := range values {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		deg := order
		if hi-lo < deg {
			deg = hi - lo
		}
		fit, err := polyFitEval(values[lo:hi+1], lo, deg, i)
		if err != nil {
			return Result{}, err
		}
		trend[i] = fit
		residual[i] = values[i] - fit
	}
	return Result{Trend: trend, Seasonal: seasonal, Residual: residual}, nil
}

// polyFitEval fits a degree-deg polynomial to window (whose first sample
// sits at absolute index offset) by QR least squares and evaluates it at
// absolute index at. Abscissae are centered on the window midpoint to
// keep the Vandermonde matrix well conditioned.
func polyFitEval(window []float64, offset, deg, at int) (float64, error) {
	m := len(window)
	mid := float64(offset) + float64(m-1)/2

	design := mat.NewDense(m, deg+1, nil)
	rhs := mat.NewVecDense(m, nil)
	for r := 0; r < m; r++ {
		x := float64(offset+r) - mid
		pow := 1.0
		for c := 0; c <= deg; c++ {
			design.Set(r, c, pow)
			pow *= x
		}
		rhs.SetVec(r, window[r])
	}

	var qr mat.QR
	qr.Factorize(design)
	var coeffs mat.VecDense
	if err := qr.SolveVecTo(&coeffs, false, rhs); err != nil {
		return 0, fmt.Errorf("decompose: polynomial fit failed: %w", series.ErrNumericalInstability)
	}

	x := float64(at) - mid
	pow := 1.0
	var y float64
	for c := 0; c <= deg; c++ {
		y += coeffs.AtVec(c) * pow
		pow *= x
	}
	return y, nil
}
