package decompose

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/internal/testutil"
	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/signal"
)

func TestSTL_ExactReconstruction(t *testing.T) {
	const period = 12
	g := signal.NewGenerator(signal.WithSeed(7))
	noise, _ := g.Noise(0.5, 240)
	values := make([]float64, 240)
	for i := range values {
		values[i] = 0.01*float64(i) + 2*math.Sin(2*math.Pi*float64(i)/period) + noise[i]
	}

	res, err := STL(values, period)
	if err != nil {
		t.Fatalf("STL: %v", err)
	}

	for i := range values {
		sum := res.Trend[i] + res.Seasonal[i] + res.Residual[i]
		testutil.RequireNearlyEqual(t, sum, values[i], 1e-9)
	}
}

func TestSTL_SeasonalStrictlyPeriodic(t *testing.T) {
	const period = 12
	g := signal.NewGenerator(signal.WithSeed(3))
	noise, _ := g.Noise(0.3, 240)
	values := make([]float64, 240)
	for i := range values {
		values[i] = 3*math.Sin(2*math.Pi*float64(i)/period) + noise[i]
	}

	res, err := STL(values, period)
	if err != nil {
		t.Fatalf("STL: %v", err)
	}
	for i := period; i < len(values); i++ {
		if res.Seasonal[i] != res.Seasonal[i-period] {
			t.Fatalf("seasonal not periodic at %d: %v vs %v", i, res.Seasonal[i], res.Seasonal[i-period])
		}
	}
	// The cycle should capture most of the sinusoid's amplitude.
	var peak float64
	for _, v := range res.Seasonal[:period] {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	if peak < 2 {
		t.Fatalf("seasonal amplitude %v, want close to 3", peak)
	}
}

func TestSTL_Validation(t *testing.T) {
	if _, err := STL(make([]float64, 20), 12); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	values := make([]float64, 30)
	values[10] = math.NaN()
	if _, err := STL(values, 12); err == nil {
		t.Fatal("expected error for missing values")
	}
	if _, err := STL(make([]float64, 30), 1); err == nil {
		t.Fatal("expected error for period < 2")
	}
}

func TestLinear_RecoversLine(t *testing.T) {
	g := signal.NewGenerator(signal.WithSeed(5))
	times := g.Times(0, 100)
	noise, _ := g.Noise(0.1, 100)
	values := make([]float64, 100)
	for i := range values {
		values[i] = 1.5 + 0.25*times[i] + noise[i]
	}
	values[40] = math.NaN()

	res, err := Linear(times, values)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	slope := (res.Trend[99] - res.Trend[0]) / (times[99] - times[0])
	testutil.RequireNearlyEqual(t, slope, 0.25, 0.02)
	if math.IsNaN(res.Trend[40]) {
		t.Fatal("trend must be defined at missing samples")
	}
	if !math.IsNaN(res.Residual[40]) {
		t.Fatal("residual must stay NaN at missing samples")
	}
	for _, v := range res.Seasonal {
		if v != 0 {
			t.Fatal("linear detrend has no seasonal component")
		}
	}
}

func TestLinear_Validation(t *testing.T) {
	if _, err := Linear([]float64{0, 1}, []float64{1}); !errors.Is(err, series.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	nan := math.NaN()
	if _, err := Linear([]float64{0, 1, 2}, []float64{1, nan, nan}); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSavitzkyGolay_ReproducesPolynomial(t *testing.T) {
	// A quadratic is invariant under a second-order fit, edges included.
	values := make([]float64, 50)
	for i := range values {
		x := float64(i)
		values[i] = 2 + 0.3*x - 0.01*x*x
	}
	res, err := SavitzkyGolay(values, 11, 2)
	if err != nil {
		t.Fatalf("SavitzkyGolay: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Trend, values, 1e-8)
}

func TestSavitzkyGolay_SmoothsNoise(t *testing.T) {
	g := signal.NewGenerator(signal.WithSeed(13))
	noise, _ := g.Noise(1, 200)
	res, err := SavitzkyGolay(noise, 21, 2)
	if err != nil {
		t.Fatalf("SavitzkyGolay: %v", err)
	}
	if v := testutil.Variance(res.Trend); v > 0.5*testutil.Variance(noise) {
		t.Fatalf("smoothed variance %v not reduced", v)
	}
	for i := range noise {
		testutil.RequireNearlyEqual(t, res.Trend[i]+res.Residual[i], noise[i], 1e-9)
	}
}

func TestSavitzkyGolay_Validation(t *testing.T) {
	if _, err := SavitzkyGolay(make([]float64, 50), 10, 2); err == nil {
		t.Fatal("expected error for even window")
	}
	if _, err := SavitzkyGolay(make([]float64, 50), 5, 7); err == nil {
		t.Fatal("expected error for order >= window")
	}
	if _, err := SavitzkyGolay(make([]float64, 5), 11, 2); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSSA_ExtractsSmoothTrend(t *testing.T) {
	g := signal.NewGenerator(signal.WithSeed(29))
	noise, _ := g.Noise(0.5, 300)
	values := make([]float64, 300)
	truth := make([]float64, 300)
	for i := range values {
		truth[i] = 5 + 0.02*float64(i)
		values[i] = truth[i] + noise[i]
	}

	res, err := SSA(values, 40, []int{0})
	if err != nil {
		t.Fatalf("SSA: %v", err)
	}
	// Leading component dominates a trend-plus-noise series.
	if res.Shares[0] < 0.5 {
		t.Fatalf("leading share %v, want dominant", res.Shares[0])
	}
	var shareSum float64
	for _, s := range res.Shares {
		shareSum += s
	}
	testutil.RequireNearlyEqual(t, shareSum, 1, 1e-9)

	diff, err := testutil.MaxAbsDiff(res.Trend[20:280], truth[20:280])
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}
	if diff > 1 {
		t.Fatalf("trend deviates from truth by %v", diff)
	}
	for i := range values {
		testutil.RequireNearlyEqual(t, res.Trend[i]+res.Residual[i], values[i], 1e-9)
	}
}

func TestSSA_Validation(t *testing.T) {
	if _, err := SSA(make([]float64, 10), 8, []int{0}); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := SSA(make([]float64, 100), 10, []int{99}); !errors.Is(err, series.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := SSA(make([]float64, 100), 10, nil); err == nil {
		t.Fatal("expected error for empty component selection")
	}
}
