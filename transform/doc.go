// Package transform provides value transforms applied ahead of spectral
// or correlation analysis: rank gaussianization (a monotonic map onto a
// standard normal distribution) and standardization.
//
// Gaussianization is order-preserving: Spearman correlation structure
// survives the transform while Pearson structure generally does not.
package transform
