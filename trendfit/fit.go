package trendfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-tsa/series"
)

// Fit is a least-squares trend model. Coefficients are ordered
// polynomial first (constant upward, on the centered time axis), then
// the cosine and sine weights of each harmonic. Fitted and Residuals
// align with the input samples; Residuals stays NaN where the input was
// missing.
type Fit struct {
	Coefficients []float64
	Fitted       []float64
	Residuals    []float64
	RMSE         float64

	degree    int
	harmonics int
	period    float64
	center    float64
}

// FitLinear fits an ordinary least-squares line against time.
func FitLinear(times, values []float64) (*Fit, error) {
	return FitPolynomial(times, values, 1)
}

// FitPolynomial fits a polynomial of the given degree against time.
// Missing values are skipped in the fit; the model is evaluated on the
// full axis. The time axis is centered on its mean before building the
// design matrix so high degrees stay well conditioned.
func FitPolynomial(times, values []float64, degree int) (*Fit, error) {
	if degree < 0 {
		return nil, fmt.Errorf("trendfit: degree must be >= 0: %d", degree)
	}
	return fitBasis(times, values, degree, 0, 0)
}

// FitHarmonic fits a polynomial trend of the given degree plus a
// cosine/sine pair per harmonic of the given period. harmonics must be
// >= 1; period is in the units of the time axis. This is the usual
// model for records with a known seasonal cycle riding on a secular
// trend.
func FitHarmonic(times, values []float64, degree, harmonics int, period float64) (*Fit, error) {
	if degree < 0 {
		return nil, fmt.Errorf("trendfit: degree must be >= 0: %d", degree)
	}
	if harmonics < 1 {
		return nil, fmt.Errorf("trendfit: at least one harmonic required: %d", harmonics)
	}
	if period <= 0 || math.IsNaN(period) {
		return nil, fmt.Errorf("trendfit: period must be > 0: %v", period)
	}
	return fitBasis(times, values, degree, harmonics, period)
}

func fitBasis(times, values []float64, degree, harmonics int, period float64) (*Fit, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("trendfit: %d timestamps vs %d values: %w",
			len(times), len(values), series.ErrDimensionMismatch)
	}

	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsNaN(times[i]) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, values[i])
	}
	terms := degree + 1 + 2*harmonics
	if len(xs) < terms+1 {
		return nil, fmt.Errorf("trendfit: %d-term model needs at least %d valid samples, have %d: %w",
			terms, terms+1, len(xs), series.ErrInsufficientData)
	}

	var center float64
	for _, x := range xs {
		center += x
	}
	center /= float64(len(xs))

	design := mat.NewDense(len(xs), terms, nil)
	rhs := mat.NewVecDense(len(xs), nil)
	for r, x := range xs {
		fillRow(design, r, x, center, degree, harmonics, period)
		rhs.SetVec(r, ys[r])
	}

	var qr mat.QR
	qr.Factorize(design)
	var solution mat.VecDense
	if err := qr.SolveVecTo(&solution, false, rhs); err != nil {
		return nil, fmt.Errorf("trendfit: ill-conditioned design: %w", series.ErrNumericalInstability)
	}

	coeffs := make([]float64, terms)
	for i := range coeffs {
		c := solution.AtVec(i)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("trendfit: ill-conditioned design: %w", series.ErrNumericalInstability)
		}
		coeffs[i] = c
	}

	fit := &Fit{
		Coefficients: coeffs,
		degree:       degree,
		harmonics:    harmonics,
		period:       period,
		center:       center,
	}

	fit.Fitted = fit.Predict(times)
	fit.Residuals = make([]float64, len(values))
	var sse float64
	count := 0
	for i := range values {
		if math.IsNaN(values[i]) {
			fit.Residuals[i] = math.NaN()
			continue
		}
		r := values[i] - fit.Fitted[i]
		fit.Residuals[i] = r
		sse += r * r
		count++
	}
	fit.RMSE = math.Sqrt(sse / float64(count))
	return fit, nil
}

// Predict evaluates the fitted model on an arbitrary time axis,
// including points outside the fitting range.
func (f *Fit) Predict(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = f.at(t)
	}
	return out
}

// Slope returns the first-degree polynomial coefficient, the secular
// rate of change per time unit. It is zero for a constant-only model.
func (f *Fit) Slope() float64 {
	if f.degree < 1 {
		return 0
	}
	return f.Coefficients[1]
}

// Amplitude returns the amplitude of harmonic k (1-based), the length
// of its cosine/sine coefficient pair.
func (f *Fit) Amplitude(k int) float64 {
	if k < 1 || k > f.harmonics {
		return 0
	}
	base := f.degree + 1 + 2*(k-1)
	return math.Hypot(f.Coefficients[base], f.Coefficients[base+1])
}

func (f *Fit) at(t float64) float64 {
	x := t - f.center
	var y float64
	pow := 1.0
	for i := 0; i <= f.degree; i++ {
		y += f.Coefficients[i] * pow
		pow *= x
	}
	for k := 1; k <= f.harmonics; k++ {
		base := f.degree + 1 + 2*(k-1)
		arg := 2 * math.Pi * float64(k) * x / f.period
		y += f.Coefficients[base]*math.Cos(arg) + f.Coefficients[base+1]*math.Sin(arg)
	}
	return y
}

func fillRow(design *mat.Dense, r int, t, center float64, degree, harmonics int, period float64) {
	x := t - center
	pow := 1.0
	for c := 0; c <= degree; c++ {
		design.Set(r, c, pow)
		pow *= x
	}
	for k := 1; k <= harmonics; k++ {
		base := degree + 1 + 2*(k-1)
		arg := 2 * math.Pi * float64(k) * x / period
		design.Set(r, base, math.Cos(arg))
		design.Set(r, base+1, math.Sin(arg))
	}
}
