package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 6, cfg.Inspection.ResetHour)
	assert.Equal(t, 5, cfg.Inspection.RecentLimit)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
store:
  backend: memory
inspection:
  resetHour: 8
  recentLimit: 10
auth:
  tokenTTL: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 8, cfg.Inspection.ResetHour)
	assert.Equal(t, 10, cfg.Inspection.RecentLimit)
	assert.Equal(t, "2h0m0s", cfg.Auth.TokenTTL.String())
	// Untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}
