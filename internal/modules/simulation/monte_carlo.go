// Package simulation produces Monte Carlo distributions of terminal
// portfolio values under a geometric-Brownian-motion approximation.
package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Trials are generated in fixed-size chunks, each with its own PCG stream
// keyed by (seed, chunk index). The sample is therefore bit-identical for a
// given seed no matter how many workers run.
const chunkSize = 2048

// Params configures a simulation run.
type Params struct {
	Trials         int
	HorizonPeriods int
	Seed           uint64
}

// Simulator draws terminal portfolio values. It does not compute
// percentiles; downstream consumers extract whatever statistics they need
// from the sample.
type Simulator struct {
	aum     float64
	workers int
	log     zerolog.Logger
}

// NewSimulator creates a simulator. workers <= 0 selects one worker per CPU.
func NewSimulator(aum float64, workers int, log zerolog.Logger) *Simulator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Simulator{
		aum:     aum,
		workers: workers,
		log:     log.With().Str("module", "simulation").Logger(),
	}
}

// TerminalValues simulates the portfolio over the horizon. The log-return is
// drawn from N((mu - sigma^2/2)*h, sigma*sqrt(h)) with mu, sigma the sample
// mean/stddev of the per-period portfolio returns; each terminal value is
// AUM * exp(draw).
func (s *Simulator) TerminalValues(weights []float64, series *domain.ReturnSeries, p Params) ([]float64, error) {
	if p.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", domain.ErrInvalidConfiguration, p.Trials)
	}
	if p.HorizonPeriods <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", domain.ErrInvalidConfiguration, p.HorizonPeriods)
	}

	pr, err := series.PortfolioReturns(weights)
	if err != nil {
		return nil, err
	}

	mu := stat.Mean(pr, nil)
	sigma := stat.StdDev(pr, nil)
	horizon := float64(p.HorizonPeriods)

	logMean := (mu - 0.5*sigma*sigma) * horizon
	logStdDev := sigma * math.Sqrt(horizon)

	values := make([]float64, p.Trials)

	if logStdDev == 0 {
		// Zero-volatility portfolio: every path ends at the same value.
		v := s.aum * math.Exp(logMean)
		for i := range values {
			values[i] = v
		}
		return values, nil
	}

	numChunks := (p.Trials + chunkSize - 1) / chunkSize
	jobs := make(chan int, numChunks)
	for c := 0; c < numChunks; c++ {
		jobs <- c
	}
	close(jobs)

	workers := s.workers
	if numChunks < workers {
		workers = numChunks
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				normal := distuv.Normal{
					Mu:    logMean,
					Sigma: logStdDev,
					Src:   rand.NewPCG(p.Seed, uint64(c)),
				}
				start := c * chunkSize
				end := start + chunkSize
				if end > p.Trials {
					end = p.Trials
				}
				for i := start; i < end; i++ {
					values[i] = s.aum * math.Exp(normal.Rand())
				}
			}
		}()
	}
	wg.Wait()

	s.log.Debug().
		Int("trials", p.Trials).
		Int("horizon_periods", p.HorizonPeriods).
		Uint64("seed", p.Seed).
		Msg("Monte Carlo simulation complete")

	return values, nil
}
