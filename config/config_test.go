package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
horizon_years: 10
flat_discount_rate: 0.025
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 10, cfg.HorizonYears)
	assert.Equal(t, 0.025, cfg.FlatDiscountRate)
	// Unset fields keep their defaults.
	assert.Equal(t, "contracts.db", cfg.Database)
	assert.Equal(t, "0 * * * *", cfg.RevaluationCron)
}

func TestLoad_Rejections(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "listen: [not scalar"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "horizon_years: -5"))
	assert.ErrorContains(t, err, "horizon_years")
}
