// Package config loads engine configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Config holds application configuration.
type Config struct {
	FundName        string
	AUM             float64 // assets under management, dollars
	RiskFreeRate    float64 // annualized
	ConfidenceLevel float64 // VaR confidence, e.g. 0.99
	PeriodsPerYear  int

	// Optimizer settings.
	Strategy      string // "max_sharpe" or "min_variance"
	MinWeight     float64
	MaxWeight     float64
	Tolerance     float64
	MaxIterations int

	// Monte Carlo settings.
	Trials         int
	HorizonPeriods int
	Seed           uint64

	DataDir  string
	Port     int
	LogLevel string
	DevMode  bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		FundName:        getEnv("FUND_NAME", "Alpha Capital Management"),
		AUM:             getEnvAsFloat("FUND_AUM", 500_000_000),
		RiskFreeRate:    getEnvAsFloat("RISK_FREE_RATE", 0.0525),
		ConfidenceLevel: getEnvAsFloat("VAR_CONFIDENCE", 0.99),
		PeriodsPerYear:  getEnvAsInt("PERIODS_PER_YEAR", 252),

		Strategy:      getEnv("OPTIMIZER_STRATEGY", "max_sharpe"),
		MinWeight:     getEnvAsFloat("MIN_WEIGHT", 0.02),
		MaxWeight:     getEnvAsFloat("MAX_WEIGHT", 0.25),
		Tolerance:     getEnvAsFloat("OPTIMIZER_TOLERANCE", 1e-9),
		MaxIterations: getEnvAsInt("OPTIMIZER_MAX_ITERATIONS", 1000),

		Trials:         getEnvAsInt("SIMULATION_TRIALS", 10000),
		HorizonPeriods: getEnvAsInt("SIMULATION_HORIZON", 252),
		Seed:           uint64(getEnvAsInt("SIMULATION_SEED", 42)),

		DataDir:  getEnv("DATA_DIR", "./data"),
		Port:     getEnvAsInt("PORT", 8001),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants before anything runs.
func (c *Config) Validate() error {
	if c.AUM <= 0 {
		return fmt.Errorf("%w: FUND_AUM must be positive", domain.ErrInvalidConfiguration)
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return fmt.Errorf("%w: VAR_CONFIDENCE must be in (0, 1)", domain.ErrInvalidConfiguration)
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: PERIODS_PER_YEAR must be positive", domain.ErrInvalidConfiguration)
	}
	if c.Strategy != "max_sharpe" && c.Strategy != "min_variance" {
		return fmt.Errorf("%w: unknown OPTIMIZER_STRATEGY %q", domain.ErrInvalidConfiguration, c.Strategy)
	}
	if c.MinWeight < 0 || c.MaxWeight <= 0 || c.MinWeight > c.MaxWeight {
		return fmt.Errorf("%w: weight bounds [%v, %v] are inconsistent", domain.ErrInvalidConfiguration, c.MinWeight, c.MaxWeight)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: OPTIMIZER_TOLERANCE must be positive", domain.ErrInvalidConfiguration)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: OPTIMIZER_MAX_ITERATIONS must be positive", domain.ErrInvalidConfiguration)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: SIMULATION_TRIALS must be positive", domain.ErrInvalidConfiguration)
	}
	if c.HorizonPeriods <= 0 {
		return fmt.Errorf("%w: SIMULATION_HORIZON must be positive", domain.ErrInvalidConfiguration)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: DATA_DIR is required", domain.ErrInvalidConfiguration)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
