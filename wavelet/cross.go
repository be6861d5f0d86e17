package wavelet

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-tsa/series"
	"github.com/cwbudde/algo-tsa/signal"
	"github.com/cwbudde/algo-tsa/spectral"
)

const defaultCoherenceTrials = 300

// CrossSpectrum holds cross-wavelet power and relative phase, indexed
// [scale][time] like Scalogram.Coeffs. Phase is the angle of Wx*conj(Wy)
// in (-pi, pi]: positive when x leads y.
type CrossSpectrum struct {
	Times   []float64
	Scales  []float64
	Periods []float64
	Power   [][]float64
	Phase   [][]float64
	COI     []float64
}

// XWT computes the cross-wavelet transform Wx*conj(Wy) of two series on
// a shared scale ladder. High common power marks intervals where both
// series are energetic at the same period; it is not normalized, so a
// single energetic series can dominate (use Coherence for a bounded
// measure).
func XWT(x, y []float64, dt float64, cfg Config) (*CrossSpectrum, error) {
	wx, wy, err := transformPair(x, y, dt, cfg)
	if err != nil {
		return nil, err
	}

	power := make([][]float64, len(wx.Scales))
	phase := make([][]float64, len(wx.Scales))
	for j := range wx.Coeffs {
		p := make([]float64, len(wx.Times))
		ph := make([]float64, len(wx.Times))
		for i := range wx.Coeffs[j] {
			cross := wx.Coeffs[j][i] * cmplx.Conj(wy.Coeffs[j][i])
			p[i] = cmplx.Abs(cross)
			ph[i] = cmplx.Phase(cross)
		}
		power[j] = p
		phase[j] = ph
	}

	return &CrossSpectrum{
		Times:   wx.Times,
		Scales:  wx.Scales,
		Periods: wx.Periods,
		Power:   power,
		Phase:   phase,
		COI:     wx.COI,
	}, nil
}

// CoherenceConfig controls the coherence estimate and its Monte Carlo
// significance test.
type CoherenceConfig struct {
	Config
	// Trials is the number of AR(1) surrogate pairs (default 300,
	// minimum 100). Zero trials would leave the threshold undefined.
	Trials int
	// Seed drives the surrogate generator.
	Seed int64
}

// CoherenceResult holds squared wavelet coherence in [0, 1] with
// relative phase, plus the per-scale Monte Carlo 95th-percentile
// threshold and the cells that exceed it.
type CoherenceResult struct {
	Times       []float64
	Scales      []float64
	Periods     []float64
	Coherence   [][]float64
	Phase       [][]float64
	COI         []float64
	Threshold   []float64
	Significant [][]bool
}

// Coherence computes squared wavelet coherence: the smoothed cross
// spectrum normalized by the smoothed individual power spectra.
// Smoothing runs a scale-proportional boxcar in time and a fixed-width
// boxcar across scales; without it coherence is identically one.
// Significance comes from AR(1) surrogate pairs fitted to the inputs:
// per scale, the threshold is the 95th percentile of surrogate
// coherence outside the cone of influence.
func Coherence(x, y []float64, dt float64, cfg CoherenceConfig) (*CoherenceResult, error) {
	trials := cfg.Trials
	if trials == 0 {
		trials = defaultCoherenceTrials
	}
	if trials < 100 {
		return nil, fmt.Errorf("wavelet: at least 100 coherence trials required: %d", trials)
	}

	wx, wy, err := transformPair(x, y, dt, cfg.Config)
	if err != nil {
		return nil, err
	}
	coherence, phase := coherenceFields(wx, wy)

	phiX, sigmaX, err := ar1Params(x)
	if err != nil {
		return nil, err
	}
	phiY, sigmaY, err := ar1Params(y)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := len(x)
	perScale := make([][]float64, len(wx.Scales))

	for trial := 0; trial < trials; trial++ {
		sx := signal.AR1(phiX, sigmaX, n, rng)
		sy := signal.AR1(phiY, sigmaY, n, rng)
		swx, swy, err := transformPair(sx, sy, dt, cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("wavelet: surrogate trial %d: %w", trial, err)
		}
		surr, _ := coherenceFields(swx, swy)
		for j := range surr {
			for i, c := range surr[j] {
				if swx.Periods[j] >= swx.COI[i] {
					continue
				}
				perScale[j] = append(perScale[j], c)
			}
		}
	}

	threshold := make([]float64, len(wx.Scales))
	for j := range threshold {
		if len(perScale[j]) == 0 {
			threshold[j] = math.NaN()
			continue
		}
		q, err := stats.Percentile(perScale[j], 95)
		if err != nil {
			return nil, fmt.Errorf("wavelet: threshold at scale %d: %w", j, err)
		}
		threshold[j] = q
	}

	significant := make([][]bool, len(coherence))
	for j := range coherence {
		marks := make([]bool, len(coherence[j]))
		if !math.IsNaN(threshold[j]) {
			for i, c := range coherence[j] {
				marks[i] = c > threshold[j]
			}
		}
		significant[j] = marks
	}

	return &CoherenceResult{
		Times:       wx.Times,
		Scales:      wx.Scales,
		Periods:     wx.Periods,
		Coherence:   coherence,
		Phase:       phase,
		COI:         wx.COI,
		Threshold:   threshold,
		Significant: significant,
	}, nil
}

func transformPair(x, y []float64, dt float64, cfg Config) (*Scalogram, *Scalogram, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("wavelet: %d vs %d samples: %w",
			len(x), len(y), series.ErrDimensionMismatch)
	}
	wx, err := CWT(x, dt, cfg)
	if err != nil {
		return nil, nil, err
	}
	wy, err := CWT(y, dt, cfg)
	if err != nil {
		return nil, nil, err
	}
	return wx, wy, nil
}

// coherenceFields computes smoothed squared coherence and phase from a
// pair of scalograms sharing one ladder.
func coherenceFields(wx, wy *Scalogram) ([][]float64, [][]float64) {
	nScales := len(wx.Scales)
	nTimes := len(wx.Times)

	crossRe := make([][]float64, nScales)
	crossIm := make([][]float64, nScales)
	powerX := make([][]float64, nScales)
	powerY := make([][]float64, nScales)

	// Scale-normalized fields per Torrence & Webster: divide by s before
	// smoothing so broad scales do not swamp the average.
	for j := 0; j < nScales; j++ {
		s := wx.Scales[j]
		crossRe[j] = make([]float64, nTimes)
		crossIm[j] = make([]float64, nTimes)
		powerX[j] = make([]float64, nTimes)
		powerY[j] = make([]float64, nTimes)
		for i := 0; i < nTimes; i++ {
			cross := wx.Coeffs[j][i] * cmplx.Conj(wy.Coeffs[j][i])
			crossRe[j][i] = real(cross) / s
			crossIm[j][i] = imag(cross) / s
			ax := cmplx.Abs(wx.Coeffs[j][i])
			ay := cmplx.Abs(wy.Coeffs[j][i])
			powerX[j][i] = ax * ax / s
			powerY[j][i] = ay * ay / s
		}
	}

	for j := 0; j < nScales; j++ {
		// Time smoothing window tracks the wavelet footprint at this
		// scale.
		half := int(wx.Scales[j] / wx.dt)
		if half < 1 {
			half = 1
		}
		crossRe[j] = boxcarTime(crossRe[j], half)
		crossIm[j] = boxcarTime(crossIm[j], half)
		powerX[j] = boxcarTime(powerX[j], half)
		powerY[j] = boxcarTime(powerY[j], half)
	}

	scaleHalf := int(0.6 / wx.config.Dj / 2)
	if scaleHalf < 1 {
		scaleHalf = 1
	}
	crossRe = boxcarScale(crossRe, scaleHalf)
	crossIm = boxcarScale(crossIm, scaleHalf)
	powerX = boxcarScale(powerX, scaleHalf)
	powerY = boxcarScale(powerY, scaleHalf)

	coherence := make([][]float64, nScales)
	phase := make([][]float64, nScales)
	for j := 0; j < nScales; j++ {
		coherence[j] = make([]float64, nTimes)
		phase[j] = make([]float64, nTimes)
		for i := 0; i < nTimes; i++ {
			denom := powerX[j][i] * powerY[j][i]
			if denom <= 0 {
				coherence[j][i] = 0
				continue
			}
			c := (crossRe[j][i]*crossRe[j][i] + crossIm[j][i]*crossIm[j][i]) / denom
			if c > 1 {
				c = 1
			} else if c < 0 {
				c = 0
			}
			coherence[j][i] = c
			phase[j][i] = math.Atan2(crossIm[j][i], crossRe[j][i])
		}
	}
	return coherence, phase
}

func boxcarTime(row []float64, half int) []float64 {
	n := len(row)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		var sum float64
		for k := lo; k <= hi; k++ {
			sum += row[k]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func boxcarScale(field [][]float64, half int) [][]float64 {
	nScales := len(field)
	if nScales == 0 {
		return field
	}
	nTimes := len(field[0])
	out := make([][]float64, nScales)
	for j := 0; j < nScales; j++ {
		out[j] = make([]float64, nTimes)
		lo := j - half
		hi := j + half
		if lo < 0 {
			lo = 0
		}
		if hi > nScales-1 {
			hi = nScales - 1
		}
		for i := 0; i < nTimes; i++ {
			var sum float64
			for k := lo; k <= hi; k++ {
				sum += field[k][i]
			}
			out[j][i] = sum / float64(hi-lo+1)
		}
	}
	return out
}

func ar1Params(values []float64) (phi, sigma float64, err error) {
	phi, variance, err := spectral.FitAR1(values)
	if err != nil {
		return 0, 0, err
	}
	// Innovation standard deviation that reproduces the sample variance.
	sigma = math.Sqrt(variance * (1 - phi*phi))
	return phi, sigma, nil
}
