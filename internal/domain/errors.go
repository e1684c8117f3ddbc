// Package domain holds value types and error sentinels shared across modules.
package domain

import "errors"

// ErrInvalidConfiguration marks configuration errors that must fail fast and
// propagate to the caller unmodified: dimensions that don't line up,
// confidence levels outside (0,1), non-positive trial counts.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrDegenerate marks numerical degeneracy that prevents an operation from
// producing any output at all (e.g. a covariance matrix that is not positive
// definite even after regularization). Metrics that can be reported as NaN
// are reported as NaN instead of returning this error.
var ErrDegenerate = errors.New("numerically degenerate input")
