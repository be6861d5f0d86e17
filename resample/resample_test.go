package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/internal/testutil"
	"github.com/cwbudde/algo-tsa/series"
)

func TestResample_LinearInputExact(t *testing.T) {
	// An irregular sampling of the line y = 3t + 1 must resample exactly.
	times := []float64{0, 0.7, 1.1, 2.9, 4.0}
	values := make([]float64, len(times))
	for i, x := range times {
		values[i] = 3*x + 1
	}
	s, err := series.New(times, values)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}

	for _, step := range []float64{0.1, 0.25, 0.5, 1.0} {
		out, err := Resample(s, step)
		if err != nil {
			t.Fatalf("step %v: %v", step, err)
		}
		for i := range out.Times {
			want := 3*out.Times[i] + 1
			testutil.RequireNearlyEqual(t, out.Values[i], want, 1e-9)
		}
	}
}

func TestResample_EvenOutput(t *testing.T) {
	s, _ := series.New([]float64{0, 1, 2.5, 3}, []float64{1, 2, 3, 4})
	out, err := Resample(s, 0.5)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if _, err := out.Step(); err != nil {
		t.Fatalf("output not evenly spaced: %v", err)
	}
	if out.Times[0] != 0 || out.Times[out.Len()-1] != 3 {
		t.Fatalf("grid [%v, %v], want [0, 3]", out.Times[0], out.Times[out.Len()-1])
	}
}

func TestResample_EdgeGapsNotFilled(t *testing.T) {
	nan := math.NaN()
	s, _ := series.New(
		[]float64{0, 1, 2, 3, 4},
		[]float64{nan, 1, 2, 3, nan},
	)
	out, err := Resample(s, 1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	// The grid must span only [1, 3], the valid range.
	if out.Times[0] != 1 || out.Times[out.Len()-1] != 3 {
		t.Fatalf("grid [%v, %v], want [1, 3]", out.Times[0], out.Times[out.Len()-1])
	}
}

func TestResample_InteriorGapBridged(t *testing.T) {
	nan := math.NaN()
	s, _ := series.New(
		[]float64{0, 1, 2, 3},
		[]float64{0, nan, nan, 3},
	)
	out, err := Resample(s, 1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Values, []float64{0, 1, 2, 3}, 1e-12)
}

func TestAt_OutOfRange(t *testing.T) {
	s, _ := series.New([]float64{0, 1, 2}, []float64{1, 2, 3})
	if _, err := At(s, []float64{-0.5}); !errors.Is(err, series.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := At(s, []float64{2.5}); !errors.Is(err, series.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestResampleRange_OutsideSpan(t *testing.T) {
	s, _ := series.New([]float64{0, 1, 2}, []float64{1, 2, 3})
	if _, err := ResampleRange(s, -1, 2, 0.5); !errors.Is(err, series.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestResample_TooFewValid(t *testing.T) {
	nan := math.NaN()
	s, _ := series.New([]float64{0, 1, 2}, []float64{nan, 1, nan})
	if _, err := Resample(s, 1); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
