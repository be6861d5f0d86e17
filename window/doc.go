// Package window generates taper functions for spectral estimation:
// the classic cosine-sum windows (Hann, Hamming, Blackman) and the
// orthonormal sine-taper family used by the multitaper estimator.
package window
