package riskmetrics

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphacapital/riskengine/internal/domain"
)

func testSeries(t *testing.T) *domain.ReturnSeries {
	t.Helper()
	s, err := domain.NewReturnSeries([]string{"A", "B"}, [][]float64{
		{0.01, 0.02},
		{-0.01, 0.00},
		{0.02, 0.01},
		{0.00, -0.02},
	})
	require.NoError(t, err)
	return s
}

// Hand-computed scenario: 2 assets, 4 periods, equal weights, AUM 1M,
// rf 0.0525, 252 periods/year, 99% confidence.
//
// Portfolio returns: 0.015, -0.005, 0.015, -0.01
// mean = 0.00375, sample stddev = 0.013149778
func TestPortfolioMetricsHandComputed(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	m, err := engine.PortfolioMetrics([]float64{0.5, 0.5}, series)
	require.NoError(t, err)

	assert.InDelta(t, 0.945, m.AnnualizedReturn, 1e-9)
	assert.InDelta(t, 0.2087486, m.AnnualizedVolatility, 1e-6)
	assert.InDelta(t, 4.27548, m.SharpeRatio, 1e-4)
}

func TestValueAtRiskHandComputed(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	// Dollar returns: 15000, -5000, 15000, -10000.
	// 1st percentile (linear, (n-1)p) = -9850, so historical VaR = 9850.
	// Only -10000 sits at or below the threshold, so CVaR = 10000.
	tr, err := engine.ValueAtRisk([]float64{0.5, 0.5}, series, 0.99)
	require.NoError(t, err)

	assert.InDelta(t, 9850, tr.Historical, 1e-6)
	assert.InDelta(t, 10000, tr.Conditional, 1e-6)
	// -(3750 + z(0.01) * 13149.778) with z(0.01) = -2.3263479
	assert.InDelta(t, 26840.96, tr.Parametric, 1.0)
}

func TestValueAtRiskOrdering(t *testing.T) {
	engine := NewEngine(500_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	for _, confidence := range []float64{0.90, 0.95, 0.99} {
		tr, err := engine.ValueAtRisk([]float64{0.5, 0.5}, series, confidence)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, tr.Conditional, tr.Historical,
			"CVaR averages losses at or beyond the VaR threshold")
		assert.GreaterOrEqual(t, tr.Historical, 0.0)
	}
}

func TestValueAtRiskRejectsBadConfidence(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	for _, confidence := range []float64{0, 1, -0.5, 1.5} {
		_, err := engine.ValueAtRisk([]float64{0.5, 0.5}, series, confidence)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	}
}

func TestZeroVolatilityColumnYieldsUndefinedSharpe(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())

	series, err := domain.NewReturnSeries([]string{"FLAT", "B"}, [][]float64{
		{0.01, 0.02},
		{0.01, -0.01},
		{0.01, 0.03},
	})
	require.NoError(t, err)

	// All weight on the zero-variance column.
	m, err := engine.PortfolioMetrics([]float64{1.0, 0.0}, series)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.AnnualizedVolatility)
	assert.True(t, math.IsNaN(m.SharpeRatio), "Sharpe must be flagged undefined, not silently zero")
}

func TestBetaOfBenchmarkAgainstItself(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	// Weights selecting asset A exactly; benchmark is asset A's history.
	benchmark := series.Column(0)
	beta, err := engine.Beta([]float64{1.0, 0.0}, series, benchmark)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, beta, 1e-12)
}

func TestBetaZeroVarianceBenchmark(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	beta, err := engine.Beta([]float64{0.5, 0.5}, series, []float64{0.01, 0.01, 0.01, 0.01})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(beta))
}

func TestBetaLengthMismatch(t *testing.T) {
	engine := NewEngine(1_000_000, 0.0525, 252, zerolog.Nop())
	series := testSeries(t)

	_, err := engine.Beta([]float64{0.5, 0.5}, series, []float64{0.01, 0.02})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
