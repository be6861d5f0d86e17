// Package signal generates deterministic test signals: sinusoids, linear
// ramps, Gaussian white noise, and AR(1) red noise.
//
// Generators are seeded so that Monte Carlo null models and tests are
// reproducible. The AR(1) generator backs the red-noise significance
// machinery in the spectral and wavelet packages.
package signal
