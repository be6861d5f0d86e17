package correlate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/transform"
)

// Statistic selects the association measure.
type Statistic int

const (
	// StatPearson is the linear product-moment correlation.
	StatPearson Statistic = iota
	// StatSpearman is the Pearson correlation of ranks.
	StatSpearman
	// StatKendall is the rank concordance coefficient tau.
	StatKendall
)

// String returns the statistic's name.
func (s Statistic) String() string {
	switch s {
	case StatPearson:
		return "pearson"
	case StatSpearman:
		return "spearman"
	case StatKendall:
		return "kendall"
	default:
		return "unknown"
	}
}

// Result holds a coefficient with its significance estimates.
// NaivePValue comes from the closed-form independent-samples test.
// SurrogatePValue is NaN unless a surrogate test produced it, in which
// case Surrogates records the number of trials.
type Result struct {
	Coefficient     float64
	NaivePValue     float64
	SurrogatePValue float64
	Surrogates      int
}

// Analysis bundles all three association measures for one pair.
type Analysis struct {
	Pearson  Result
	Spearman Result
	Kendall  Result
}

// Pearson computes the product-moment correlation with a two-sided
// Student's t p-value. Missing pairs are dropped.
func Pearson(x, y []float64) (Result, error) {
	xs, ys, err := cleanPairs(x, y)
	if err != nil {
		return Result{}, err
	}
	return pearsonResult(xs, ys)
}

// Spearman computes the rank correlation with a two-sided Student's t
// p-value on the rank-transformed data. Missing pairs are dropped.
func Spearman(x, y []float64) (Result, error) {
	xs, ys, err := cleanPairs(x, y)
	if err != nil {
		return Result{}, err
	}
	rx, _ := transform.Ranks(xs)
	ry, _ := transform.Ranks(ys)
	return pearsonResult(rx, ry)
}

// Kendall computes tau with a two-sided normal-approximation p-value.
// Missing pairs are dropped.
func Kendall(x, y []float64) (Result, error) {
	xs, ys, err := cleanPairs(x, y)
	if err != nil {
		return Result{}, err
	}
	// stat.Kendall reports zero concordance for a constant slice instead
	// of failing, so degenerate input is caught up front.
	if isConstant(xs) || isConstant(ys) {
		return Result{}, fmt.Errorf("correlate: kendall of constant input: %w", series.ErrNumericalInstability)
	}
	tau := stat.Kendall(xs, ys, nil)
	n := float64(len(xs))
	z := 3 * tau * math.Sqrt(n*(n-1)) / math.Sqrt(2*(2*n+5))
	return Result{
		Coefficient:     tau,
		NaivePValue:     twoSidedNormal(z),
		SurrogatePValue: math.NaN(),
	}, nil
}

// Analyze computes Pearson, Spearman and Kendall for one pair.
func Analyze(x, y []float64) (Analysis, error) {
	p, err := Pearson(x, y)
	if err != nil {
		return Analysis{}, err
	}
	s, err := Spearman(x, y)
	if err != nil {
		return Analysis{}, err
	}
	k, err := Kendall(x, y)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{Pearson: p, Spearman: s, Kendall: k}, nil
}

func pearsonResult(xs, ys []float64) (Result, error) {
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return Result{}, fmt.Errorf("correlate: correlation of constant input: %w", series.ErrNumericalInstability)
	}
	return Result{
		Coefficient:     r,
		NaivePValue:     pearsonPValue(r, len(xs)),
		SurrogatePValue: math.NaN(),
	}, nil
}

func pearsonPValue(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	nu := float64(n - 2)
	t := r * math.Sqrt(nu/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	return 2 * dist.CDF(-math.Abs(t))
}

func twoSidedNormal(z float64) float64 {
	return 2 * distuv.UnitNormal.CDF(-math.Abs(z))
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// cleanPairs validates lengths and drops pairs where either side is
// missing. At least 3 complete pairs are required.
func cleanPairs(x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("correlate: %d vs %d samples: %w",
			len(x), len(y), series.ErrDimensionMismatch)
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 3 {
		return nil, nil, fmt.Errorf("correlate: need at least 3 complete pairs, have %d: %w",
			len(xs), series.ErrInsufficientData)
	}
	return xs, ys, nil
}
