// Package marketdata supplies return-series data to the analysis pipeline:
// seeded synthetic generation with a configured correlation structure, a
// synthetic benchmark, and sqlite-backed persistence of generated series.
package marketdata

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alphacapital/riskengine/internal/domain"
)

// GeneratorConfig describes the synthetic market to draw from. Annual
// figures are converted to per-period ones with PeriodsPerYear.
type GeneratorConfig struct {
	Symbols            []string
	AnnualReturns      []float64
	AnnualVolatilities []float64
	Correlations       [][]float64
	Periods            int
	PeriodsPerYear     int
	Seed               uint64
}

func (cfg GeneratorConfig) validate() error {
	n := len(cfg.Symbols)
	if n == 0 {
		return fmt.Errorf("%w: no symbols", domain.ErrInvalidConfiguration)
	}
	if len(cfg.AnnualReturns) != n || len(cfg.AnnualVolatilities) != n {
		return fmt.Errorf("%w: expected %d annual returns and volatilities", domain.ErrInvalidConfiguration, n)
	}
	if len(cfg.Correlations) != n {
		return fmt.Errorf("%w: correlation matrix must be %dx%d", domain.ErrInvalidConfiguration, n, n)
	}
	for i, row := range cfg.Correlations {
		if len(row) != n {
			return fmt.Errorf("%w: correlation row %d has %d columns, expected %d", domain.ErrInvalidConfiguration, i, len(row), n)
		}
	}
	if cfg.Periods < 2 {
		return fmt.Errorf("%w: need at least 2 periods, got %d", domain.ErrInvalidConfiguration, cfg.Periods)
	}
	if cfg.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year must be positive", domain.ErrInvalidConfiguration)
	}
	return nil
}

// GenerateReturnSeries draws correlated per-period returns: a Cholesky
// factor of the correlation matrix applied to independent standard normals,
// scaled by per-period volatility and shifted by per-period mean. The same
// seed always produces the same series.
func GenerateReturnSeries(cfg GeneratorConfig) (*domain.ReturnSeries, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := len(cfg.Symbols)
	ppy := float64(cfg.PeriodsPerYear)

	muPeriod := make([]float64, n)
	sigmaPeriod := make([]float64, n)
	for i := 0; i < n; i++ {
		muPeriod[i] = cfg.AnnualReturns[i] / ppy
		sigmaPeriod[i] = cfg.AnnualVolatilities[i] / math.Sqrt(ppy)
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			corr.SetSym(i, j, cfg.Correlations[i][j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(corr); !ok {
		return nil, fmt.Errorf("%w: correlation matrix is not positive definite", domain.ErrDegenerate)
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(cfg.Seed, cfg.Seed)}

	rows := make([][]float64, cfg.Periods)
	z := make([]float64, n)
	for t := 0; t < cfg.Periods; t++ {
		for i := range z {
			z[i] = normal.Rand()
		}
		row := make([]float64, n)
		for i := 0; i < n; i++ {
			var x float64
			for j := 0; j <= i; j++ {
				x += lower.At(i, j) * z[j]
			}
			row[i] = muPeriod[i] + x*sigmaPeriod[i]
		}
		rows[t] = row
	}

	return domain.NewReturnSeries(cfg.Symbols, rows)
}

// BenchmarkReturns builds a synthetic benchmark from the series: 0.85 times
// the equal-weight cross-sectional mean of each period, plus seeded
// N(0, 0.003) noise.
func BenchmarkReturns(series *domain.ReturnSeries, seed uint64) []float64 {
	noise := distuv.Normal{Mu: 0, Sigma: 0.003, Src: rand.NewPCG(seed, seed)}

	n := float64(series.Assets())
	out := make([]float64, series.Periods())
	for t := 0; t < series.Periods(); t++ {
		var sum float64
		for i := 0; i < series.Assets(); i++ {
			sum += series.At(t, i)
		}
		out[t] = (sum/n)*0.85 + noise.Rand()
	}
	return out
}
