// Package filter provides zero-phase Butterworth filtering of evenly
// sampled series.
//
// Filters are designed as cascades of second-order sections (biquads)
// and applied forward-backward, so the output has no phase shift
// relative to the input. Band-reject output is obtained as
// original - bandpass(original), and a high-pass output may equivalently
// be computed as original - lowpass(original); both identities make the
// complementary outputs reconstruct the input exactly.
//
// Cutoffs are validated against (0, Nyquist); violations fail with
// [ErrInvalidCutoff] before any state is touched.
package filter
