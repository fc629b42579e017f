package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 10000, cfg.Budget.ManagerCap, 0.001)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 1*time.Second, cfg.Retry.InitialDelay)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
budget:
  manager_cap: 20000
  vp_cap: 60000
email:
  sender: growth@example.com
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 20000, cfg.Budget.ManagerCap, 0.001)
	assert.InDelta(t, 100000, cfg.Budget.CMOCap, 0.001, "untouched keys keep defaults")
	assert.Equal(t, "growth@example.com", cfg.Email.Sender)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("MARKETFLOW_LOG_LEVEL", "warn")
	t.Setenv("MARKETFLOW_BUDGET_MANAGER_CAP", "15000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.InDelta(t, 15000, cfg.Budget.ManagerCap, 0.001)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("MARKETFLOW_BUDGET_TOTAL", "plenty")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MARKETFLOW_BUDGET_TOTAL")
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvertedCaps(t *testing.T) {
	t.Setenv("MARKETFLOW_BUDGET_MANAGER_CAP", "999999")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invert")
}
