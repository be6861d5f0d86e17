// Package trendfit fits parametric trend models to a series and
// extrapolates them. Polynomial and harmonic models are solved by QR
// least squares on a centered time axis; the returned Fit evaluates its
// functional form on any axis, so forecasts are plain extrapolation.
// FitARIMA and AutoARIMA fit Box-Jenkins models by conditional sum of
// squares; their forecasts are data-driven and prone to overfitting on
// short records, which is exactly why the parametric fits come first.
package trendfit
