package optimization

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Ridge added to the covariance diagonal so the closed-form solve survives
// near-singular matrices.
const covarianceRidge = 1e-8

// MinVarianceOptimizer computes the global-minimum-variance allocation in
// closed form: w proportional to Sigma^-1 * 1, with the covariance matrix
// regularized by a small ridge, then projected into the box.
//
// It serves both as an explicit strategy and as the deterministic fallback
// when the nonlinear Sharpe solve does not converge.
type MinVarianceOptimizer struct {
	log zerolog.Logger
}

// NewMinVarianceOptimizer creates a closed-form minimum-variance optimizer.
func NewMinVarianceOptimizer(log zerolog.Logger) *MinVarianceOptimizer {
	return &MinVarianceOptimizer{
		log: log.With().Str("module", "optimization").Str("strategy", "min_variance").Logger(),
	}
}

// Optimize solves Sigma*w = 1 via Cholesky and normalizes into the box.
// Once clipping is active the result is no longer exactly minimum-variance;
// that approximation is accepted. A matrix that is not positive definite
// even after regularization yields ErrDegenerate.
func (o *MinVarianceOptimizer) Optimize(
	series *domain.ReturnSeries,
	bounds Bounds,
	periodsPerYear int,
) (Result, error) {
	n := series.Assets()
	if err := bounds.Validate(n); err != nil {
		return Result{}, err
	}

	_, sigma := annualizedMoments(series, periodsPerYear)
	for i := 0; i < n; i++ {
		sigma.SetSym(i, i, sigma.At(i, i)+covarianceRidge)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return Result{}, fmt.Errorf("%w: covariance matrix not positive definite after regularization", domain.ErrDegenerate)
	}

	ones := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		ones.SetVec(i, 1)
	}

	var solved mat.VecDense
	if err := chol.SolveVecTo(&solved, ones); err != nil {
		return Result{}, fmt.Errorf("%w: solving Sigma*w = 1: %v", domain.ErrDegenerate, err)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += solved.AtVec(i)
	}
	if sum == 0 {
		return Result{}, fmt.Errorf("%w: minimum-variance weights sum to zero", domain.ErrDegenerate)
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = solved.AtVec(i) / sum
	}

	weights = ApplyBounds(weights, bounds)

	o.log.Info().Int("num_assets", n).Msg("Computed minimum-variance weights")

	return Result{Weights: weights, Converged: true}, nil
}
