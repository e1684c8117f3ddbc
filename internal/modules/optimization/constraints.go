package optimization

import (
	"fmt"
	"math"

	"github.com/alphacapital/riskengine/internal/domain"
)

const budgetTolerance = 1e-9

// Validate checks that the box admits a full-budget allocation for n assets:
// n*Min <= 1 <= n*Max.
func (b Bounds) Validate(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: no assets to allocate", domain.ErrInvalidConfiguration)
	}
	if b.Min < 0 || b.Max <= 0 || b.Min > b.Max {
		return fmt.Errorf("%w: weight bounds [%v, %v] are not a valid box", domain.ErrInvalidConfiguration, b.Min, b.Max)
	}
	if float64(n)*b.Min > 1+budgetTolerance {
		return fmt.Errorf("%w: minimum weight %v infeasible for %d assets", domain.ErrInvalidConfiguration, b.Min, n)
	}
	if float64(n)*b.Max < 1-budgetTolerance {
		return fmt.Errorf("%w: maximum weight %v infeasible for %d assets", domain.ErrInvalidConfiguration, b.Max, n)
	}
	return nil
}

// clampToBox projects each component into [Min, Max] without touching the
// budget constraint.
func clampToBox(weights []float64, b Bounds) []float64 {
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = math.Max(b.Min, math.Min(b.Max, w))
	}
	return out
}

// ApplyBounds clamps weights into the box and then redistributes the budget
// residual equally among components that still have slack, iterating until
// the weights sum to 1 within tolerance.
//
// Plain clip-then-renormalize (divide by the sum) can push clipped components
// back outside the box; redistribution keeps both constraints satisfied
// whenever the box is feasible. When the input came from a minimum-variance
// solve, clipping means the result is no longer exactly minimum-variance;
// that approximation is accepted.
func ApplyBounds(weights []float64, b Bounds) []float64 {
	out := clampToBox(weights, b)
	n := len(out)

	for pass := 0; pass <= n; pass++ {
		sum := 0.0
		for _, w := range out {
			sum += w
		}
		residual := 1.0 - sum
		if math.Abs(residual) <= budgetTolerance {
			break
		}

		free := make([]int, 0, n)
		for i, w := range out {
			if residual > 0 && w < b.Max-budgetTolerance {
				free = append(free, i)
			} else if residual < 0 && w > b.Min+budgetTolerance {
				free = append(free, i)
			}
		}
		if len(free) == 0 {
			break
		}

		share := residual / float64(len(free))
		for _, i := range free {
			out[i] = math.Max(b.Min, math.Min(b.Max, out[i]+share))
		}
	}

	return out
}

// equalWeights returns the 1/n allocation, which lies inside any feasible box.
func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}
