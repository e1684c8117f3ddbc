// Package riskmetrics computes portfolio risk and performance metrics:
// annualized return/volatility/Sharpe, historical and parametric Value at
// Risk, Conditional VaR, and beta against a benchmark.
//
// All methods are side-effect-free over immutable inputs. Degenerate
// denominators (zero volatility, zero benchmark variance) yield NaN for the
// affected metric rather than an error, so the remaining metrics of an
// analysis stay usable.
package riskmetrics

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alphacapital/riskengine/internal/domain"
	"github.com/alphacapital/riskengine/pkg/formulas"
)

// Engine evaluates metrics for (weights, return series) pairs.
type Engine struct {
	aum            float64
	riskFreeRate   float64
	periodsPerYear float64
	log            zerolog.Logger
}

// NewEngine creates a risk metrics engine.
//
// aum scales fractional returns into currency loss magnitudes for VaR/CVaR.
// riskFreeRate is an annual fraction. periodsPerYear is the annualization
// factor (252 for daily data).
func NewEngine(aum, riskFreeRate float64, periodsPerYear int, log zerolog.Logger) *Engine {
	return &Engine{
		aum:            aum,
		riskFreeRate:   riskFreeRate,
		periodsPerYear: float64(periodsPerYear),
		log:            log.With().Str("module", "riskmetrics").Logger(),
	}
}

// PortfolioMetrics holds annualized performance figures, in fractional units.
type PortfolioMetrics struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	// SharpeRatio is NaN when annualized volatility is zero; callers must
	// check before using it.
	SharpeRatio float64
}

// TailRisk holds Value-at-Risk figures as positive currency loss magnitudes.
type TailRisk struct {
	Historical  float64
	Parametric  float64
	Conditional float64
}

// PortfolioMetrics computes annualized return, volatility and Sharpe ratio
// for the given weights. Mean return annualizes linearly; volatility by the
// square root of the period count (independent-periods assumption).
func (e *Engine) PortfolioMetrics(weights []float64, series *domain.ReturnSeries) (PortfolioMetrics, error) {
	pr, err := series.PortfolioReturns(weights)
	if err != nil {
		return PortfolioMetrics{}, err
	}

	annReturn := stat.Mean(pr, nil) * e.periodsPerYear
	annVol := stat.StdDev(pr, nil) * math.Sqrt(e.periodsPerYear)

	sharpe := math.NaN()
	if annVol > 0 {
		sharpe = (annReturn - e.riskFreeRate) / annVol
	} else {
		e.log.Debug().Msg("Zero portfolio volatility, Sharpe ratio undefined")
	}

	return PortfolioMetrics{
		AnnualizedReturn:     annReturn,
		AnnualizedVolatility: annVol,
		SharpeRatio:          sharpe,
	}, nil
}

// ValueAtRisk computes historical VaR, parametric (normal) VaR and CVaR at
// the given confidence level, scaled by AUM into currency terms.
//
// Historical VaR and CVaR share the same empirical percentile threshold:
// CVaR averages every currency-scaled sample at or below that threshold, so
// CVaR >= historical VaR whenever losses exist in the tail. Parametric VaR
// uses the standard-normal quantile with the sample mean/stddev and is an
// intentionally different estimator of the same quantity.
func (e *Engine) ValueAtRisk(weights []float64, series *domain.ReturnSeries, confidence float64) (TailRisk, error) {
	if confidence <= 0 || confidence >= 1 {
		return TailRisk{}, fmt.Errorf("%w: confidence level %v outside (0,1)", domain.ErrInvalidConfiguration, confidence)
	}

	pr, err := series.PortfolioReturns(weights)
	if err != nil {
		return TailRisk{}, err
	}

	dollar := make([]float64, len(pr))
	for i, r := range pr {
		dollar[i] = r * e.aum
	}

	tailP := 1 - confidence
	threshold := formulas.Percentile(dollar, tailP)

	mu := stat.Mean(dollar, nil)
	sigma := stat.StdDev(dollar, nil)
	parametric := -(mu + distuv.UnitNormal.Quantile(tailP)*sigma)

	var tailSum float64
	var tailCount int
	for _, d := range dollar {
		if d <= threshold {
			tailSum += d
			tailCount++
		}
	}
	// The threshold is at least the sample minimum, so the tail is never empty.
	cvar := -tailSum / float64(tailCount)

	return TailRisk{
		Historical:  -threshold,
		Parametric:  parametric,
		Conditional: cvar,
	}, nil
}

// Beta computes covariance(portfolio, benchmark) / variance(benchmark) over
// the shared period index, using two-pass sample estimators. Returns NaN when
// the benchmark variance is zero.
func (e *Engine) Beta(weights []float64, series *domain.ReturnSeries, benchmark []float64) (float64, error) {
	if len(benchmark) != series.Periods() {
		return 0, fmt.Errorf("%w: benchmark has %d periods, series has %d",
			domain.ErrInvalidConfiguration, len(benchmark), series.Periods())
	}

	pr, err := series.PortfolioReturns(weights)
	if err != nil {
		return 0, err
	}

	benchVar := stat.Variance(benchmark, nil)
	if benchVar == 0 {
		e.log.Debug().Msg("Zero benchmark variance, beta undefined")
		return math.NaN(), nil
	}

	return stat.Covariance(pr, benchmark, nil) / benchVar, nil
}
