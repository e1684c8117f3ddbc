// Package universe manages the fund's asset universe: ordered securities
// with sector labels and their current (possibly suboptimal) weights.
package universe

import (
	"fmt"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Security is one position in the universe.
type Security struct {
	Symbol string  `json:"symbol"`
	Sector string  `json:"sector"`
	Weight float64 `json:"weight"` // current allocation, fraction of AUM
}

// Universe is an ordered set of securities. Order matters: it fixes the
// column order of the return matrix and of every weight vector.
type Universe struct {
	Securities []Security `json:"securities"`
}

// Validate enforces the structural invariants: at least one security,
// unique symbols, a sector for every symbol, non-negative weights. Current
// weights are an existing allocation and are NOT required to sum to 1 or to
// respect the optimizer's box.
func (u Universe) Validate() error {
	if len(u.Securities) == 0 {
		return fmt.Errorf("%w: universe is empty", domain.ErrInvalidConfiguration)
	}

	seen := make(map[string]bool, len(u.Securities))
	for _, sec := range u.Securities {
		if sec.Symbol == "" {
			return fmt.Errorf("%w: security with empty symbol", domain.ErrInvalidConfiguration)
		}
		if seen[sec.Symbol] {
			return fmt.Errorf("%w: duplicate symbol %s", domain.ErrInvalidConfiguration, sec.Symbol)
		}
		seen[sec.Symbol] = true

		if sec.Sector == "" {
			return fmt.Errorf("%w: security %s has no sector", domain.ErrInvalidConfiguration, sec.Symbol)
		}
		if sec.Weight < 0 {
			return fmt.Errorf("%w: security %s has negative weight", domain.ErrInvalidConfiguration, sec.Symbol)
		}
	}
	return nil
}

// Symbols returns the symbols in universe order.
func (u Universe) Symbols() []string {
	out := make([]string, len(u.Securities))
	for i, sec := range u.Securities {
		out[i] = sec.Symbol
	}
	return out
}

// Weights returns the current weights in universe order.
func (u Universe) Weights() []float64 {
	out := make([]float64, len(u.Securities))
	for i, sec := range u.Securities {
		out[i] = sec.Weight
	}
	return out
}

// Default returns the fund's reference universe: ten large caps with their
// sector labels and the current allocation under review.
func Default() Universe {
	return Universe{Securities: []Security{
		{Symbol: "AAPL", Sector: "Technology", Weight: 0.18},
		{Symbol: "MSFT", Sector: "Technology", Weight: 0.15},
		{Symbol: "GOOGL", Sector: "Technology", Weight: 0.12},
		{Symbol: "AMZN", Sector: "Consumer Discretionary", Weight: 0.10},
		{Symbol: "NVDA", Sector: "Technology", Weight: 0.08},
		{Symbol: "JPM", Sector: "Financials", Weight: 0.12},
		{Symbol: "GS", Sector: "Financials", Weight: 0.08},
		{Symbol: "BAC", Sector: "Financials", Weight: 0.07},
		{Symbol: "XOM", Sector: "Energy", Weight: 0.05},
		{Symbol: "JNJ", Sector: "Healthcare", Weight: 0.05},
	}}
}
