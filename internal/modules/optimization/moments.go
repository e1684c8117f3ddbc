package optimization

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/alphacapital/riskengine/internal/domain"
)

// annualizedMoments computes the annualized mean-return vector and sample
// covariance matrix of the series. Covariance uses the N-1 estimator per
// pair, scaled linearly by periodsPerYear.
func annualizedMoments(series *domain.ReturnSeries, periodsPerYear int) ([]float64, *mat.SymDense) {
	n := series.Assets()
	ppy := float64(periodsPerYear)

	cols := make([][]float64, n)
	for i := 0; i < n; i++ {
		cols[i] = series.Column(i)
	}

	mu := make([]float64, n)
	for i := 0; i < n; i++ {
		mu[i] = stat.Mean(cols[i], nil) * ppy
	}

	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, stat.Covariance(cols[i], cols[j], nil)*ppy)
		}
	}

	return mu, sigma
}
