package wavelet

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/signal"
)

func sinusoid(t *testing.T, period float64, n int, noiseSigma float64, seed int64) []float64 {
	t.Helper()
	g := signal.NewGenerator(signal.WithSeed(seed))
	sine, err := g.Sine(1/period, 1.0, n)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	if noiseSigma == 0 {
		return sine
	}
	noise, err := g.Noise(noiseSigma, n)
	if err != nil {
		t.Fatalf("Noise: %v", err)
	}
	out, err := signal.Add(sine, noise)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return out
}

func TestCWT_PeakScaleAtSinusoidPeriod(t *testing.T) {
	const period = 16.0
	values := sinusoid(t, period, 256, 0.2, 31)

	sc, err := CWT(values, 1, Config{})
	if err != nil {
		t.Fatalf("CWT: %v", err)
	}

	peak := sc.PeakScale()
	if peak < 0 {
		t.Fatal("no scale outside the cone of influence")
	}
	// Power concentrates within one sub-octave of the true period.
	if off := math.Abs(math.Log2(sc.Periods[peak] / period)); off > 0.3 {
		t.Fatalf("peak period %v, want %v within one sub-octave", sc.Periods[peak], period)
	}
}

func TestCWT_Geometry(t *testing.T) {
	values := sinusoid(t, 8, 128, 0, 1)
	sc, err := CWT(values, 0.5, Config{})
	if err != nil {
		t.Fatalf("CWT: %v", err)
	}

	if len(sc.Coeffs) != len(sc.Scales) || len(sc.Coeffs[0]) != len(sc.Times) {
		t.Fatal("coefficient grid does not match axes")
	}
	if sc.Scales[0] != 1.0 {
		t.Fatalf("smallest scale %v, want 2*dt", sc.Scales[0])
	}
	for j := 1; j < len(sc.Scales); j++ {
		ratio := sc.Scales[j] / sc.Scales[j-1]
		if math.Abs(ratio-math.Pow(2, 0.25)) > 1e-12 {
			t.Fatalf("scale ladder not geometric at %d: ratio %v", j, ratio)
		}
	}
	// The cone of influence rises from the edges and peaks mid-record.
	mid := len(sc.COI) / 2
	if !(sc.COI[0] == 0 && sc.COI[mid] > sc.COI[5]) {
		t.Fatalf("cone of influence malformed: edge=%v interior=%v mid=%v",
			sc.COI[0], sc.COI[5], sc.COI[mid])
	}
}

func TestScalogram_Significance(t *testing.T) {
	const period = 16.0
	g := signal.NewGenerator(signal.WithSeed(57))
	background, err := g.AR1(0.5, 0.3, 256)
	if err != nil {
		t.Fatalf("AR1: %v", err)
	}
	values := sinusoid(t, period, 256, 0, 58)
	for i := range values {
		values[i] = 2*values[i] + background[i]
	}

	sc, err := CWT(values, 1, Config{})
	if err != nil {
		t.Fatalf("CWT: %v", err)
	}
	if err := sc.Significance(values, 0.95); err != nil {
		t.Fatalf("Significance: %v", err)
	}

	peak := sc.PeakScale()
	flagged := 0
	usable := 0
	for i := range sc.Significant[peak] {
		if sc.Periods[peak] >= sc.COI[i] {
			continue
		}
		usable++
		if sc.Significant[peak][i] {
			flagged++
		}
	}
	if usable == 0 || float64(flagged)/float64(usable) < 0.5 {
		t.Fatalf("only %d of %d usable cells significant at the driven scale", flagged, usable)
	}

	if err := sc.Significance(values, 1.5); err == nil {
		t.Fatal("expected error for confidence outside (0, 1)")
	}
}

func TestXWT_CommonPowerAndPhase(t *testing.T) {
	const period = 16.0
	shared := sinusoid(t, period, 256, 0, 3)
	// Distinct seeds: one generator repeats its draw on every Noise call.
	nx, _ := signal.NewGenerator(signal.WithSeed(4)).Noise(0.2, 256)
	ny, _ := signal.NewGenerator(signal.WithSeed(104)).Noise(0.2, 256)
	x, _ := signal.Add(shared, nx)
	y, _ := signal.Add(shared, ny)

	cross, err := XWT(x, y, 1, Config{})
	if err != nil {
		t.Fatalf("XWT: %v", err)
	}

	best, bestPower := -1, 0.0
	mid := len(cross.Times) / 2
	for j := range cross.Power {
		if cross.Periods[j] >= cross.COI[mid] {
			continue
		}
		if cross.Power[j][mid] > bestPower {
			best, bestPower = j, cross.Power[j][mid]
		}
	}
	if best < 0 {
		t.Fatal("no usable scale at mid-record")
	}
	if off := math.Abs(math.Log2(cross.Periods[best] / period)); off > 0.3 {
		t.Fatalf("common power peaks at period %v, want %v", cross.Periods[best], period)
	}
	// In-phase series: relative phase near zero at the driven scale.
	if math.Abs(cross.Phase[best][mid]) > 0.5 {
		t.Fatalf("phase %v at the driven scale, want near 0", cross.Phase[best][mid])
	}
}

func TestCoherence_CoupledAtDrivenScale(t *testing.T) {
	const period = 16.0
	shared := sinusoid(t, period, 128, 0, 11)
	nx, _ := signal.NewGenerator(signal.WithSeed(12)).Noise(0.3, 128)
	ny, _ := signal.NewGenerator(signal.WithSeed(112)).Noise(0.3, 128)
	x, _ := signal.Add(shared, nx)
	y, _ := signal.Add(shared, ny)

	res, err := Coherence(x, y, 1, CoherenceConfig{Trials: 100, Seed: 6})
	if err != nil {
		t.Fatalf("Coherence: %v", err)
	}

	for j := range res.Coherence {
		for i, c := range res.Coherence[j] {
			if c < 0 || c > 1 {
				t.Fatalf("coherence out of [0,1] at scale %d time %d: %v", j, i, c)
			}
		}
	}

	// Scale nearest the driving period: high coherence mid-record.
	best, bestOff := -1, math.Inf(1)
	for j, p := range res.Periods {
		if off := math.Abs(math.Log2(p / period)); off < bestOff {
			best, bestOff = j, off
		}
	}
	mid := len(res.Times) / 2
	if res.Coherence[best][mid] < 0.8 {
		t.Fatalf("coherence %v at the driven scale, want > 0.8", res.Coherence[best][mid])
	}
	if len(res.Threshold) != len(res.Scales) {
		t.Fatalf("threshold length %d, want %d", len(res.Threshold), len(res.Scales))
	}
}

func TestWavelet_Validation(t *testing.T) {
	if _, err := CWT(make([]float64, 4), 1, Config{}); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	bad := make([]float64, 32)
	bad[3] = math.NaN()
	if _, err := CWT(bad, 1, Config{}); err == nil {
		t.Fatal("expected error for missing values")
	}
	if _, err := XWT(make([]float64, 32), make([]float64, 16), 1, Config{}); !errors.Is(err, series.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	x := sinusoid(t, 8, 64, 0.1, 7)
	y := sinusoid(t, 8, 64, 0.1, 8)
	if _, err := Coherence(x, y, 1, CoherenceConfig{Trials: 10}); err == nil {
		t.Fatal("expected error for too few trials")
	}
}
