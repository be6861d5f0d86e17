package trendfit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsa/series"
)

// Order is the (p, d, q) order of an ARIMA model: p autoregressive
// terms, d rounds of differencing, q moving-average terms.
type Order struct {
	P int
	D int
	Q int
}

// ARIMA is a Box-Jenkins model fitted by conditional sum of squares.
// Fitted and Residuals live on the differenced scale; Forecast
// integrates the differencing back to the original scale.
type ARIMA struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	Intercept float64
	Variance  float64
	LogLik    float64
	AIC       float64
	AICc      float64
	BIC       float64
	Fitted    []float64
	Residuals []float64

	data []float64
	diff []float64
}

const (
	cssMaxIterations = 100
	cssTolerance     = 1e-6
	cssLearningRate  = 0.01
	coeffBound       = 0.99
)

// FitARIMA fits an ARIMA model of the given order. AR coefficients are
// initialized from the Yule-Walker equations and refined together with
// the MA coefficients by gradient descent on the conditional sum of
// squares; both sets are clamped inside (-1, 1) for stationarity and
// invertibility.
func FitARIMA(values []float64, order Order) (*ARIMA, error) {
	if order.P < 0 || order.D < 0 || order.Q < 0 {
		return nil, fmt.Errorf("trendfit: negative arima order (%d,%d,%d)", order.P, order.D, order.Q)
	}
	minLen := order.P + order.D + order.Q + 10
	if len(values) < minLen {
		return nil, fmt.Errorf("trendfit: arima(%d,%d,%d) needs at least %d samples, have %d: %w",
			order.P, order.D, order.Q, minLen, len(values), series.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("trendfit: missing value at index %d; interpolate before fitting", i)
		}
	}

	diff := append([]float64(nil), values...)
	for i := 0; i < order.D; i++ {
		diff = difference(diff)
	}

	m := &ARIMA{
		Order:    order,
		ARCoeffs: make([]float64, order.P),
		MACoeffs: make([]float64, order.Q),
		data:     append([]float64(nil), values...),
		diff:     diff,
	}

	if order.P > 0 {
		if phi := yuleWalker(autocorrelation(diff, order.P), order.P); phi != nil {
			copy(m.ARCoeffs, phi)
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}

	m.optimizeCSS()
	m.informationCriteria()
	return m, nil
}

func (m *ARIMA) optimizeCSS() {
	y := m.diff
	n := len(y)
	p := m.Order.P
	q := m.Order.Q

	var mean float64
	for _, v := range y {
		mean += v
	}
	m.Intercept = mean / float64(n)

	start := p
	if q > start {
		start = q
	}

	residuals := make([]float64, n)
	prevSSE := math.Inf(1)

	for iter := 0; iter < cssMaxIterations; iter++ {
		sse := m.conditionalResiduals(residuals)

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}
		for i := 0; i < p; i++ {
			m.ARCoeffs[i] = clamp(m.ARCoeffs[i]-cssLearningRate*arGrad[i]/float64(n), coeffBound)
		}
		for i := 0; i < q; i++ {
			m.MACoeffs[i] = clamp(m.MACoeffs[i]-cssLearningRate*maGrad[i]/float64(n), coeffBound)
		}

		if math.Abs(prevSSE-sse) < cssTolerance {
			break
		}
		prevSSE = sse
	}

	m.Residuals = make([]float64, n)
	m.Fitted = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			m.Fitted[t] = m.Intercept
			m.Residuals[t] = y[t] - m.Intercept
			continue
		}
		pred := m.predictOne(y, m.Residuals, t)
		m.Fitted[t] = pred
		m.Residuals[t] = y[t] - pred
	}

	var sse float64
	count := 0
	for t := start; t < n; t++ {
		sse += m.Residuals[t] * m.Residuals[t]
		count++
	}
	params := p + q + 1
	if count > params {
		m.Variance = sse / float64(count-params)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

// conditionalResiduals fills residuals in place and returns the
// conditional sum of squares under the current coefficients.
func (m *ARIMA) conditionalResiduals(residuals []float64) float64 {
	y := m.diff
	n := len(y)
	start := m.Order.P
	if m.Order.Q > start {
		start = m.Order.Q
	}
	for i := range residuals {
		residuals[i] = 0
	}
	var sse float64
	for t := start; t < n; t++ {
		r := y[t] - m.predictOne(y, residuals, t)
		residuals[t] = r
		sse += r * r
	}
	return sse
}

func (m *ARIMA) predictOne(y, residuals []float64, t int) float64 {
	pred := m.Intercept
	for i := 0; i < m.Order.P; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.Q; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	return pred
}

func (m *ARIMA) informationCriteria() {
	n := len(m.Residuals)
	k := float64(m.Order.P + m.Order.Q + 1)

	var sse float64
	for _, r := range m.Residuals {
		sse += r * r
	}
	if m.Variance > 0 {
		nf := float64(n)
		m.LogLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	m.AIC = -2*m.LogLik + 2*k
	if float64(n)-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(float64(n)-k-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + k*math.Log(float64(n))
}

// Forecast predicts the next steps values on the original scale,
// integrating any differencing back from the model's scale. Future
// innovations are taken at their expectation of zero.
func (m *ARIMA) Forecast(steps int) ([]float64, error) {
	if steps < 1 {
		return nil, fmt.Errorf("trendfit: forecast steps must be >= 1: %d", steps)
	}

	y := m.diff
	n := len(y)
	extY := make([]float64, n+steps)
	copy(extY, y)
	extRes := make([]float64, n+steps)
	copy(extRes, m.Residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept
		for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}
		for i := 0; i < m.Order.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MACoeffs[i] * extRes[t-i-1]
		}
		extY[t] = pred
	}

	forecast := append([]float64(nil), extY[n:]...)
	for i := 0; i < m.Order.D; i++ {
		last := m.data[len(m.data)-1-i]
		for j := range forecast {
			if j == 0 {
				forecast[j] += last
			} else {
				forecast[j] += forecast[j-1]
			}
		}
	}
	return forecast, nil
}

func difference(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := range out {
		out[i] = values[i+1] - values[i]
	}
	return out
}

// autocorrelation returns the sample ACF at lags 0..maxLag.
func autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	acf := make([]float64, maxLag+1)
	if n == 0 {
		return acf
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var c0 float64
	for _, v := range values {
		d := v - mean
		c0 += d * d
	}
	if c0 == 0 {
		acf[0] = 1
		return acf
	}

	acf[0] = 1
	for lag := 1; lag <= maxLag && lag < n; lag++ {
		var c float64
		for t := lag; t < n; t++ {
			c += (values[t] - mean) * (values[t-lag] - mean)
		}
		acf[lag] = c / c0
	}
	return acf
}

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin
// recursion for initial AR coefficients.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
