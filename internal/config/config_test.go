package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10_000.0, cfg.InitialCapital)
	assert.Equal(t, 0.001, cfg.CostRate)
	assert.Equal(t, 0.0005, cfg.SlippageRate)
	assert.Equal(t, 100, cfg.MonteCarloIterations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INITIAL_CAPITAL", "50000")
	t.Setenv("COST_RATE", "0.002")
	t.Setenv("MONTE_CARLO_ITERATIONS", "500")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50_000.0, cfg.InitialCapital)
	assert.Equal(t, 0.002, cfg.CostRate)
	assert.Equal(t, 500, cfg.MonteCarloIterations)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("INITIAL_CAPITAL", "-100")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("COST_RATE", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.001, cfg.CostRate)
}
