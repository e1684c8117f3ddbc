package marketdata

// DefaultGeneratorConfig reproduces the fund's reference universe: three
// years of daily returns for ten large caps with a sector-blocked
// correlation structure (tech names move together, financials move together,
// energy and healthcare sit further out).
func DefaultGeneratorConfig(seed uint64) GeneratorConfig {
	return GeneratorConfig{
		Symbols: []string{
			"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
			"JPM", "GS", "BAC", "XOM", "JNJ",
		},
		AnnualReturns: []float64{
			0.22, 0.20, 0.18, 0.25, 0.38,
			0.14, 0.16, 0.13, 0.09, 0.10,
		},
		AnnualVolatilities: []float64{
			0.28, 0.25, 0.27, 0.30, 0.45,
			0.22, 0.28, 0.25, 0.30, 0.18,
		},
		Correlations: [][]float64{
			{1.00, 0.75, 0.70, 0.55, 0.65, 0.30, 0.25, 0.25, 0.15, 0.20},
			{0.75, 1.00, 0.68, 0.52, 0.60, 0.32, 0.27, 0.27, 0.18, 0.22},
			{0.70, 0.68, 1.00, 0.58, 0.55, 0.28, 0.23, 0.23, 0.14, 0.18},
			{0.55, 0.52, 0.58, 1.00, 0.48, 0.25, 0.20, 0.20, 0.22, 0.15},
			{0.65, 0.60, 0.55, 0.48, 1.00, 0.22, 0.18, 0.18, 0.12, 0.15},
			{0.30, 0.32, 0.28, 0.25, 0.22, 1.00, 0.72, 0.75, 0.28, 0.25},
			{0.25, 0.27, 0.23, 0.20, 0.18, 0.72, 1.00, 0.68, 0.25, 0.22},
			{0.25, 0.27, 0.23, 0.20, 0.18, 0.75, 0.68, 1.00, 0.22, 0.20},
			{0.15, 0.18, 0.14, 0.22, 0.12, 0.28, 0.25, 0.22, 1.00, 0.15},
			{0.20, 0.22, 0.18, 0.15, 0.15, 0.25, 0.22, 0.20, 0.15, 1.00},
		},
		Periods:        756,
		PeriodsPerYear: 252,
		Seed:           seed,
	}
}
