// Package analysis orchestrates a full portfolio analysis run: risk metrics
// for the current allocation, an optimized allocation with its metrics, and a
// Monte Carlo projection of terminal portfolio values.
package analysis

import (
	"encoding/json"
	"math"
	"time"
)

// RiskMetrics bundles the per-allocation figures. Return, volatility and
// Sharpe are annualized fractions; the VaR family is positive currency loss.
type RiskMetrics struct {
	AnnualizedReturn     float64 `msgpack:"annualized_return"`
	AnnualizedVolatility float64 `msgpack:"annualized_volatility"`
	SharpeRatio          float64 `msgpack:"sharpe_ratio"`
	Beta                 float64 `msgpack:"beta"`
	VaRHistorical        float64 `msgpack:"var_historical"`
	VaRParametric        float64 `msgpack:"var_parametric"`
	CVaR                 float64 `msgpack:"cvar"`
}

// MarshalJSON encodes NaN metrics as null. Sharpe and beta are NaN for
// degenerate inputs and encoding/json refuses raw NaN.
func (m RiskMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"annualized_return":     jsonFloat(m.AnnualizedReturn),
		"annualized_volatility": jsonFloat(m.AnnualizedVolatility),
		"sharpe_ratio":          jsonFloat(m.SharpeRatio),
		"beta":                  jsonFloat(m.Beta),
		"var_historical":        jsonFloat(m.VaRHistorical),
		"var_parametric":        jsonFloat(m.VaRParametric),
		"cvar":                  jsonFloat(m.CVaR),
	})
}

func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// Allocation compares current and optimized weight for one security.
type Allocation struct {
	Symbol    string  `json:"symbol" msgpack:"symbol"`
	Sector    string  `json:"sector" msgpack:"sector"`
	Current   float64 `json:"current" msgpack:"current"`
	Optimized float64 `json:"optimized" msgpack:"optimized"`
	Delta     float64 `json:"delta" msgpack:"delta"`
}

// Projection summarizes the Monte Carlo terminal-value distribution in
// currency terms.
type Projection struct {
	Pessimistic    float64 `json:"pessimistic" msgpack:"pessimistic"` // 5th percentile
	Median         float64 `json:"median" msgpack:"median"`
	Optimistic     float64 `json:"optimistic" msgpack:"optimistic"` // 95th percentile
	Trials         int     `json:"trials" msgpack:"trials"`
	HorizonPeriods int     `json:"horizon_periods" msgpack:"horizon_periods"`
}

// Result is one complete analysis run.
type Result struct {
	ID        string    `json:"id" msgpack:"id"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`

	// Fund snapshot at run time, so stored results stay interpretable when
	// the configuration changes later.
	FundName        string  `json:"fund_name" msgpack:"fund_name"`
	AUM             float64 `json:"aum" msgpack:"aum"`
	RiskFreeRate    float64 `json:"risk_free_rate" msgpack:"risk_free_rate"`
	ConfidenceLevel float64 `json:"confidence_level" msgpack:"confidence_level"`

	Strategy           string `json:"strategy" msgpack:"strategy"`
	OptimizerConverged bool   `json:"optimizer_converged" msgpack:"optimizer_converged"`

	Current     RiskMetrics  `json:"current" msgpack:"current"`
	Optimized   RiskMetrics  `json:"optimized" msgpack:"optimized"`
	Allocations []Allocation `json:"allocations" msgpack:"allocations"`
	Projection  Projection   `json:"projection" msgpack:"projection"`
}
