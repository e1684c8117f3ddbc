package optimization

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphacapital/riskengine/internal/domain"
)

// syntheticSeries draws uncorrelated normal returns with per-asset annual
// means and volatilities, deterministically seeded.
func syntheticSeries(t *testing.T, annualMeans, annualVols []float64, periods int) *domain.ReturnSeries {
	t.Helper()

	n := len(annualMeans)
	symbols := make([]string, n)
	for i := range symbols {
		symbols[i] = string(rune('A' + i))
	}

	rng := rand.New(rand.NewPCG(7, 11))
	rows := make([][]float64, periods)
	for p := 0; p < periods; p++ {
		row := make([]float64, n)
		for i := 0; i < n; i++ {
			row[i] = annualMeans[i]/252 + annualVols[i]/math.Sqrt(252)*rng.NormFloat64()
		}
		rows[p] = row
	}

	s, err := domain.NewReturnSeries(symbols, rows)
	require.NoError(t, err)
	return s
}

func annualizedSharpe(t *testing.T, weights []float64, series *domain.ReturnSeries, rf float64) float64 {
	t.Helper()
	mu, sigma := annualizedMoments(series, 252)
	ret, variance := portfolioMoments(weights, mu, sigma)
	return (ret - rf) / math.Sqrt(variance)
}

func TestSharpeOptimizerFeasibility(t *testing.T) {
	series := syntheticSeries(t,
		[]float64{0.22, 0.10, 0.15, 0.08},
		[]float64{0.28, 0.18, 0.22, 0.30},
		504)

	bounds := Bounds{Min: 0.05, Max: 0.60}
	opt := NewSharpeOptimizer(1e-9, 1000, zerolog.Nop())

	res, err := opt.Optimize(series, 0.0525, bounds, 252)
	require.NoError(t, err)

	// Feasibility must hold on every path, converged or not.
	sum := 0.0
	for _, w := range res.Weights {
		sum += w
		assert.GreaterOrEqual(t, w, bounds.Min-1e-9)
		assert.LessOrEqual(t, w, bounds.Max+1e-9)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	if res.Converged {
		equal := equalWeights(series.Assets())
		assert.GreaterOrEqual(t,
			annualizedSharpe(t, res.Weights, series, 0.0525),
			annualizedSharpe(t, equal, series, 0.0525)-1e-6,
			"converged solution must not be worse than the equal-weight start")
	}
}

func TestSharpeOptimizerTightBox(t *testing.T) {
	series := syntheticSeries(t,
		[]float64{0.20, 0.12},
		[]float64{0.25, 0.20},
		504)

	// Degenerate box: only one feasible point.
	opt := NewSharpeOptimizer(1e-9, 1000, zerolog.Nop())
	res, err := opt.Optimize(series, 0.0525, Bounds{Min: 0.5, Max: 0.5}, 252)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Weights[0], 1e-9)
	assert.InDelta(t, 0.5, res.Weights[1], 1e-9)
}

func TestSharpeOptimizerInfeasibleBounds(t *testing.T) {
	series := syntheticSeries(t, []float64{0.1, 0.1}, []float64{0.2, 0.2}, 100)

	opt := NewSharpeOptimizer(1e-9, 1000, zerolog.Nop())
	_, err := opt.Optimize(series, 0.0525, Bounds{Min: 0.8, Max: 0.9}, 252)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
