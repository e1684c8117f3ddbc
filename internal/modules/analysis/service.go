package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/domain"
	"github.com/alphacapital/riskengine/internal/modules/marketdata"
	"github.com/alphacapital/riskengine/internal/modules/optimization"
	"github.com/alphacapital/riskengine/internal/modules/riskmetrics"
	"github.com/alphacapital/riskengine/internal/modules/simulation"
	"github.com/alphacapital/riskengine/internal/modules/universe"
	"github.com/alphacapital/riskengine/pkg/formulas"
)

// Settings holds the fund parameters an analysis runs under.
type Settings struct {
	FundName        string
	AUM             float64
	RiskFreeRate    float64
	ConfidenceLevel float64
	PeriodsPerYear  int

	Strategy string
	Bounds   optimization.Bounds

	Trials         int
	HorizonPeriods int
	Seed           uint64
}

// Service runs analyses end to end and persists the results.
type Service struct {
	settings Settings

	engine *riskmetrics.Engine
	sharpe *optimization.SharpeOptimizer
	minVar *optimization.MinVarianceOptimizer
	sim    *simulation.Simulator

	universeRepo *universe.Repository
	historyRepo  *marketdata.Repository
	analysisRepo *Repository

	log zerolog.Logger
}

// NewService wires the analysis orchestrator.
func NewService(
	settings Settings,
	engine *riskmetrics.Engine,
	sharpe *optimization.SharpeOptimizer,
	minVar *optimization.MinVarianceOptimizer,
	sim *simulation.Simulator,
	universeRepo *universe.Repository,
	historyRepo *marketdata.Repository,
	analysisRepo *Repository,
	log zerolog.Logger,
) *Service {
	return &Service{
		settings:     settings,
		engine:       engine,
		sharpe:       sharpe,
		minVar:       minVar,
		sim:          sim,
		universeRepo: universeRepo,
		historyRepo:  historyRepo,
		analysisRepo: analysisRepo,
		log:          log.With().Str("module", "analysis").Logger(),
	}
}

// Run executes a full analysis against the stored universe and the latest
// return series, persists the result, and returns it.
func (s *Service) Run() (*Result, error) {
	u, err := s.universeRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load universe: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	series, benchmark, err := s.historyRepo.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load return series: %w", err)
	}
	if series == nil {
		return nil, fmt.Errorf("%w: no return series available, generate one first", domain.ErrInvalidConfiguration)
	}
	if series.Assets() != len(u.Securities) {
		return nil, fmt.Errorf("%w: return series has %d assets, universe has %d",
			domain.ErrInvalidConfiguration, series.Assets(), len(u.Securities))
	}

	// The universe can shrink after the bounds were configured; an infeasible
	// box must fail the run, not silently degrade the fallback allocation.
	if err := s.settings.Bounds.Validate(series.Assets()); err != nil {
		return nil, err
	}

	currentWeights := u.Weights()
	current, err := s.evaluate(currentWeights, series, benchmark)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate current allocation: %w", err)
	}

	optimizedWeights, converged := s.optimize(series)

	optimized, err := s.evaluate(optimizedWeights, series, benchmark)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate optimized allocation: %w", err)
	}

	projection, err := s.project(optimizedWeights, series)
	if err != nil {
		return nil, fmt.Errorf("failed to project terminal values: %w", err)
	}

	allocations := make([]Allocation, len(u.Securities))
	for i, sec := range u.Securities {
		allocations[i] = Allocation{
			Symbol:    sec.Symbol,
			Sector:    sec.Sector,
			Current:   currentWeights[i],
			Optimized: optimizedWeights[i],
			Delta:     optimizedWeights[i] - currentWeights[i],
		}
	}

	result := &Result{
		ID:                 uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		FundName:           s.settings.FundName,
		AUM:                s.settings.AUM,
		RiskFreeRate:       s.settings.RiskFreeRate,
		ConfidenceLevel:    s.settings.ConfidenceLevel,
		Strategy:           s.settings.Strategy,
		OptimizerConverged: converged,
		Current:            current,
		Optimized:          optimized,
		Allocations:        allocations,
		Projection:         projection,
	}

	if err := s.analysisRepo.Save(result); err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.log.Info().
		Str("id", result.ID).
		Str("strategy", result.Strategy).
		Bool("optimizer_converged", converged).
		Msg("Analysis complete")

	return result, nil
}

// evaluate computes the full metric set for one weight vector.
func (s *Service) evaluate(weights []float64, series *domain.ReturnSeries, benchmark []float64) (RiskMetrics, error) {
	perf, err := s.engine.PortfolioMetrics(weights, series)
	if err != nil {
		return RiskMetrics{}, err
	}

	tail, err := s.engine.ValueAtRisk(weights, series, s.settings.ConfidenceLevel)
	if err != nil {
		return RiskMetrics{}, err
	}

	beta, err := s.engine.Beta(weights, series, benchmark)
	if err != nil {
		return RiskMetrics{}, err
	}

	return RiskMetrics{
		AnnualizedReturn:     perf.AnnualizedReturn,
		AnnualizedVolatility: perf.AnnualizedVolatility,
		SharpeRatio:          perf.SharpeRatio,
		Beta:                 beta,
		VaRHistorical:        tail.Historical,
		VaRParametric:        tail.Parametric,
		CVaR:                 tail.Conditional,
	}, nil
}

// optimize runs the configured strategy with its fallback chain. Bounds are
// validated against the series before this is called, so optimizer errors
// here are non-convergence or numerical degeneracy, never bad configuration.
// It always returns feasible weights; the flag reports whether the primary
// (or the min-variance fallback) produced them.
func (s *Service) optimize(series *domain.ReturnSeries) ([]float64, bool) {
	bounds := s.settings.Bounds

	if s.settings.Strategy == "max_sharpe" {
		res, err := s.sharpe.Optimize(series, s.settings.RiskFreeRate, bounds, s.settings.PeriodsPerYear)
		if err == nil && res.Converged {
			return res.Weights, true
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("Sharpe optimization failed, falling back to minimum variance")
		} else {
			s.log.Warn().Msg("Sharpe optimization did not converge, falling back to minimum variance")
		}
	}

	res, err := s.minVar.Optimize(series, bounds, s.settings.PeriodsPerYear)
	if err == nil {
		// Minimum variance counts as converged only when it was the
		// requested strategy, not when it substitutes for max Sharpe.
		return res.Weights, s.settings.Strategy == "min_variance"
	}
	s.log.Warn().Err(err).Msg("Minimum-variance optimization failed, falling back to bounded equal weights")

	n := series.Assets()
	equal := make([]float64, n)
	for i := range equal {
		equal[i] = 1.0 / float64(n)
	}
	return optimization.ApplyBounds(equal, bounds), false
}

// project simulates the horizon and extracts the 5/50/95 percentiles.
func (s *Service) project(weights []float64, series *domain.ReturnSeries) (Projection, error) {
	values, err := s.sim.TerminalValues(weights, series, simulation.Params{
		Trials:         s.settings.Trials,
		HorizonPeriods: s.settings.HorizonPeriods,
		Seed:           s.settings.Seed,
	})
	if err != nil {
		return Projection{}, err
	}

	return Projection{
		Pessimistic:    formulas.Percentile(values, 0.05),
		Median:         formulas.Percentile(values, 0.50),
		Optimistic:     formulas.Percentile(values, 0.95),
		Trials:         s.settings.Trials,
		HorizonPeriods: s.settings.HorizonPeriods,
	}, nil
}
