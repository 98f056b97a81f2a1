package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "storage/runs", cfg.Staging.Dir)
	assert.Equal(t, 4, cfg.Render.Parallelism)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FACTURADOR_SERVER_ADDR", ":9090")
	t.Setenv("FACTURADOR_RENDER_PARALLELISM", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Render.Parallelism)
}

func TestLoadRejectsNonPositiveParallelism(t *testing.T) {
	t.Setenv("FACTURADOR_RENDER_PARALLELISM", "0")

	_, err := Load()
	assert.Error(t, err)
}
