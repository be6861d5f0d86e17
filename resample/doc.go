// Package resample maps irregularly or gappily sampled series onto an
// evenly spaced grid by linear interpolation between the two nearest
// valid samples.
//
// Queries outside the span of valid samples fail with
// [series.ErrOutOfRange]: leading and trailing runs of missing values
// are never extrapolated. Interior gaps are bridged by interpolating
// between the valid neighbors on either side, matching the behavior of
// the climate-record tutorials this library descends from.
package resample
