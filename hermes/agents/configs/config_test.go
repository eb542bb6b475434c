package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "HermesLogisticsAgent", cfg.AgentName)
	assert.Equal(t, "Hermes wasn't able to come up with an answer this time.", cfg.FallbackMessage)
	assert.Equal(t, 5, cfg.MaxRounds)
	assert.Contains(t, cfg.Instruction, "monthly_avg_delay")
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_rounds: 2\ntemperature: 0.5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxRounds)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-6)
	assert.Equal(t, Default().Instruction, cfg.Instruction)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("max_rounds: [1, 2"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("max_rounds: 0\n"), 0o644))
	_, err = LoadConfig(zero)
	assert.ErrorContains(t, err, "max_rounds")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
