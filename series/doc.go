// Package series defines the core time-series entity shared by every
// analysis package in algo-tsa, along with the library-wide error taxonomy
// and a delimited-text loader.
//
// A [Series] is an ordered sequence of (timestamp, value) pairs with
// strictly increasing timestamps. Missing values are represented as NaN
// and propagate explicitly through the analysis pipelines; no routine
// drops them silently. All transformations in this library produce a new
// Series rather than mutating their input.
package series
