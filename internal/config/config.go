// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds engine configuration
type Config struct {
	InitialCapital       float64
	CostRate             float64
	SlippageRate         float64
	RebalanceThreshold   float64
	MonteCarloIterations int
	CacheTTLMinutes      int
	LogLevel             string
	LogPretty            bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		InitialCapital:       getEnvAsFloat("INITIAL_CAPITAL", 10_000),
		CostRate:             getEnvAsFloat("COST_RATE", 0.001),
		SlippageRate:         getEnvAsFloat("SLIPPAGE_RATE", 0.0005),
		RebalanceThreshold:   getEnvAsFloat("REBALANCE_THRESHOLD", 0.05),
		MonteCarloIterations: getEnvAsInt("MONTE_CARLO_ITERATIONS", 100),
		CacheTTLMinutes:      getEnvAsInt("CACHE_TTL_MINUTES", 5),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("INITIAL_CAPITAL must be positive, got %f", c.InitialCapital)
	}
	if c.CostRate < 0 || c.CostRate >= 1 {
		return fmt.Errorf("COST_RATE must be in [0, 1), got %f", c.CostRate)
	}
	if c.SlippageRate < 0 || c.SlippageRate >= 1 {
		return fmt.Errorf("SLIPPAGE_RATE must be in [0, 1), got %f", c.SlippageRate)
	}
	if c.RebalanceThreshold <= 0 || c.RebalanceThreshold >= 1 {
		return fmt.Errorf("REBALANCE_THRESHOLD must be in (0, 1), got %f", c.RebalanceThreshold)
	}
	if c.MonteCarloIterations <= 0 {
		return fmt.Errorf("MONTE_CARLO_ITERATIONS must be positive, got %d", c.MonteCarloIterations)
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

// getEnvAsFloat retrieves an environment variable as a float
func getEnvAsFloat(key string, defaultVal float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultVal
}
