// Package optimization searches weight space for Sharpe-maximizing
// allocations under box and budget constraints, with a closed-form
// minimum-variance alternative for when the nonlinear solve does not
// converge.
package optimization

// Bounds is the per-asset box constraint: every weight must lie in
// [Min, Max]. The same box applies to all assets.
type Bounds struct {
	Min float64
	Max float64
}

// Result is the outcome of an optimizer invocation.
//
// Converged=false is not an error: the weights then hold a deterministic
// starting allocation and the caller decides whether to substitute a
// fallback strategy.
type Result struct {
	Weights   []float64
	Converged bool
}

// DefaultBounds matches the fund mandate: no asset excluded, none dominant.
var DefaultBounds = Bounds{Min: 0.02, Max: 0.25}
