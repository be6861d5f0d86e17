// Package correlate measures association between two series and tests
// its significance. Pearson, Spearman and Kendall coefficients come
// with closed-form p-values; those assume independent samples, which
// autocorrelated records violate. SurrogateTest replaces the analytic
// null with phase-randomized surrogates that preserve the power
// spectrum of the first series, giving p-values that stay honest under
// serial correlation.
package correlate
