package optimization

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Penalty weight for the budget (sum-to-1) equality constraint.
const budgetPenalty = 1000.0

// SharpeOptimizer maximizes the annualized Sharpe ratio over weight vectors
// subject to box and budget constraints.
//
// The constrained problem is solved as an unconstrained one: per-component
// projection into the box, quadratic penalty on the budget, BFGS with a
// Nelder-Mead retry. The iteration cap is enforced regardless of convergence.
type SharpeOptimizer struct {
	tolerance     float64
	maxIterations int
	log           zerolog.Logger
}

// NewSharpeOptimizer creates a max-Sharpe optimizer. tolerance is the
// gradient threshold for convergence (1e-9 by default upstream);
// maxIterations bounds the solve (1000 by default upstream).
func NewSharpeOptimizer(tolerance float64, maxIterations int, log zerolog.Logger) *SharpeOptimizer {
	return &SharpeOptimizer{
		tolerance:     tolerance,
		maxIterations: maxIterations,
		log:           log.With().Str("module", "optimization").Str("strategy", "max_sharpe").Logger(),
	}
}

// Optimize searches for the Sharpe-maximizing allocation, starting from equal
// weights. Non-convergence is reported through Result.Converged, not as an
// error; the returned weights are then the bounded equal-weight start so the
// caller can substitute its own fallback.
func (o *SharpeOptimizer) Optimize(
	series *domain.ReturnSeries,
	riskFreeRate float64,
	bounds Bounds,
	periodsPerYear int,
) (Result, error) {
	n := series.Assets()
	if err := bounds.Validate(n); err != nil {
		return Result{}, err
	}

	mu, sigma := annualizedMoments(series, periodsPerYear)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xp := clampToBox(x, bounds)

			ret, variance := portfolioMoments(xp, mu, sigma)
			sd := math.Sqrt(math.Max(variance, 1e-10))

			sum := 0.0
			for _, w := range xp {
				sum += w
			}

			obj := -(ret - riskFreeRate) / sd
			obj += budgetPenalty * (sum - 1.0) * (sum - 1.0)
			return obj
		},
		Grad: func(grad, x []float64) {
			xp := clampToBox(x, bounds)

			ret, variance := portfolioMoments(xp, mu, sigma)
			sd := math.Sqrt(math.Max(variance, 1e-10))
			excess := ret - riskFreeRate

			sum := 0.0
			for _, w := range xp {
				sum += w
			}

			for i := 0; i < n; i++ {
				var dVariance float64
				for j := 0; j < n; j++ {
					dVariance += 2 * sigma.At(i, j) * xp[j]
				}
				grad[i] = -mu[i]/sd + excess*dVariance/(2*sd*sd*sd)
				grad[i] += 2 * budgetPenalty * (sum - 1.0)
			}
		},
	}

	initial := equalWeights(n)
	settings := &optimize.Settings{
		GradientThreshold: o.tolerance,
		MajorIterations:   o.maxIterations,
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.BFGS{})
	if err != nil || !converged(result.Status) {
		// BFGS struggles when the projection pins components to the box
		// boundary; Nelder-Mead is gradient-free and usually finishes the job.
		result, err = optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	}

	if err != nil || !converged(result.Status) {
		status := "error"
		if err == nil {
			status = result.Status.String()
		}
		o.log.Warn().
			Err(err).
			Str("status", status).
			Int("max_iterations", o.maxIterations).
			Msg("Sharpe optimization did not converge, returning starting weights")
		return Result{Weights: ApplyBounds(initial, bounds), Converged: false}, nil
	}

	weights := ApplyBounds(clampToBox(result.X, bounds), bounds)

	o.log.Info().
		Str("status", result.Status.String()).
		Int("func_evaluations", result.FuncEvaluations).
		Msg("Sharpe optimization converged")

	return Result{Weights: weights, Converged: true}, nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence:
		return true
	default:
		return false
	}
}

// portfolioMoments returns mu'w and w'Sigma w.
func portfolioMoments(w, mu []float64, sigma *mat.SymDense) (float64, float64) {
	var ret, variance float64
	for i := range w {
		ret += mu[i] * w[i]
		for j := range w {
			variance += w[i] * w[j] * sigma.At(i, j)
		}
	}
	return ret, variance
}
