package correlate

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/signal"
)

// noisePair draws two series from generators with distinct seeds. One
// generator reproduces the same draw on every Noise call, so a shared
// generator would hand back two copies of one series.
func noisePair(t *testing.T, sigmaX, sigmaY float64, n int, seedX, seedY int64) ([]float64, []float64) {
	t.Helper()
	gx := signal.NewGenerator(signal.WithSeed(seedX))
	x, err := gx.Noise(sigmaX, n)
	if err != nil {
		t.Fatalf("Noise: %v", err)
	}
	gy := signal.NewGenerator(signal.WithSeed(seedY))
	y, err := gy.Noise(sigmaY, n)
	if err != nil {
		t.Fatalf("Noise: %v", err)
	}
	same := true
	for i := range x {
		if x[i] != y[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("noise fixture drew identical series")
	}
	return x, y
}

func independentPair(t *testing.T, n int) ([]float64, []float64) {
	t.Helper()
	return noisePair(t, 1, 1, n, 41, 141)
}

func coupledPair(t *testing.T, n int) ([]float64, []float64) {
	t.Helper()
	x, noise := noisePair(t, 1, 0.5, n, 42, 142)
	y := make([]float64, n)
	for i := range y {
		y[i] = x[i] + noise[i]
	}
	return x, y
}

func TestAnalyze_IndependentNoise(t *testing.T) {
	x, y := independentPair(t, 500)
	res, err := Analyze(x, y)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for name, r := range map[string]Result{
		"pearson":  res.Pearson,
		"spearman": res.Spearman,
		"kendall":  res.Kendall,
	} {
		if math.Abs(r.Coefficient) > 0.15 {
			t.Errorf("%s: coefficient %v for independent noise", name, r.Coefficient)
		}
		if r.NaivePValue < 0.01 {
			t.Errorf("%s: p=%v flags independent noise as significant", name, r.NaivePValue)
		}
		if !math.IsNaN(r.SurrogatePValue) {
			t.Errorf("%s: surrogate p set without a surrogate test", name)
		}
	}
}

func TestAnalyze_CoupledSeries(t *testing.T) {
	x, y := coupledPair(t, 500)
	res, err := Analyze(x, y)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Pearson.Coefficient < 0.5 {
		t.Fatalf("pearson coefficient %v, want > 0.5", res.Pearson.Coefficient)
	}
	for name, r := range map[string]Result{
		"pearson":  res.Pearson,
		"spearman": res.Spearman,
		"kendall":  res.Kendall,
	} {
		if r.NaivePValue >= 0.05 {
			t.Errorf("%s: p=%v misses a strong coupling", name, r.NaivePValue)
		}
	}
}

func TestPearson_DropsMissingPairs(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4, 5, 6}
	y := []float64{2, 4, 6, math.NaN(), 10, 12}
	res, err := Pearson(x, y)
	if err != nil {
		t.Fatalf("Pearson: %v", err)
	}
	if math.Abs(res.Coefficient-1) > 1e-12 {
		t.Fatalf("coefficient %v, want 1 on the complete pairs", res.Coefficient)
	}
}

func TestCorrelate_Validation(t *testing.T) {
	if _, err := Pearson([]float64{1, 2}, []float64{1}); !errors.Is(err, series.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := Spearman([]float64{1, 2}, []float64{1, 2}); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := Kendall([]float64{1, 1, 1, 1}, []float64{1, 2, 3, 4}); !errors.Is(err, series.ErrNumericalInstability) {
		t.Fatalf("expected ErrNumericalInstability, got %v", err)
	}
	if _, err := Kendall([]float64{1, 2, 3, 4}, []float64{7, 7, 7, 7}); !errors.Is(err, series.ErrNumericalInstability) {
		t.Fatalf("expected ErrNumericalInstability for constant y, got %v", err)
	}
}

func TestSurrogateTest_CoupledSeries(t *testing.T) {
	x, y := coupledPair(t, 256)
	res, err := SurrogateTest(x, y, SurrogateConfig{Trials: 200, Seed: 1})
	if err != nil {
		t.Fatalf("SurrogateTest: %v", err)
	}
	if res.Surrogates != 200 {
		t.Fatalf("surrogates=%d, want 200", res.Surrogates)
	}
	if res.SurrogatePValue >= 0.05 {
		t.Fatalf("surrogate p=%v misses a strong coupling", res.SurrogatePValue)
	}
}

func TestSurrogateTest_IndependentNoise(t *testing.T) {
	x, y := independentPair(t, 256)
	res, err := SurrogateTest(x, y, SurrogateConfig{Trials: 200, Seed: 2})
	if err != nil {
		t.Fatalf("SurrogateTest: %v", err)
	}
	if res.SurrogatePValue < 0.01 {
		t.Fatalf("surrogate p=%v flags independent noise", res.SurrogatePValue)
	}
}

func TestSurrogateTest_Deterministic(t *testing.T) {
	x, y := coupledPair(t, 128)
	cfg := SurrogateConfig{Statistic: StatSpearman, Trials: 150, Seed: 9}
	a, err := SurrogateTest(x, y, cfg)
	if err != nil {
		t.Fatalf("SurrogateTest: %v", err)
	}
	b, err := SurrogateTest(x, y, cfg)
	if err != nil {
		t.Fatalf("SurrogateTest: %v", err)
	}
	if a.SurrogatePValue != b.SurrogatePValue {
		t.Fatalf("same seed, different p: %v vs %v", a.SurrogatePValue, b.SurrogatePValue)
	}
}

func TestSurrogateTest_Validation(t *testing.T) {
	if _, err := SurrogateTest(make([]float64, 10), make([]float64, 9), SurrogateConfig{}); !errors.Is(err, series.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	x, y := independentPair(t, 64)
	if _, err := SurrogateTest(x, y, SurrogateConfig{Trials: 10}); err == nil {
		t.Fatal("expected error for too few trials")
	}
	x[5] = math.NaN()
	if _, err := SurrogateTest(x, y, SurrogateConfig{}); err == nil {
		t.Fatal("expected error for missing values")
	}
}
