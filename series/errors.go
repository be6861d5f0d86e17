package series

import "errors"

// Library-wide error categories. Analysis packages wrap these with
// fmt.Errorf("...: %w", ...) to add the offending parameter values, so
// callers can match with errors.Is while still seeing full context.
var (
	// ErrInsufficientData indicates a series too short for the requested
	// window, period, embedding dimension, or model order.
	ErrInsufficientData = errors.New("tsa: insufficient data")

	// ErrDimensionMismatch indicates paired inputs that are not aligned
	// or not of equal length.
	ErrDimensionMismatch = errors.New("tsa: dimension mismatch")

	// ErrOutOfRange indicates a query outside the valid timestamp span.
	ErrOutOfRange = errors.New("tsa: out of range")

	// ErrNumericalInstability indicates an ill-conditioned regression or
	// decomposition (e.g. a collinear design matrix).
	ErrNumericalInstability = errors.New("tsa: numerical instability")
)
