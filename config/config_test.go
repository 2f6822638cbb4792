package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresJwtSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("STATIONERY_WORKDIR", "/tmp/stationery")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Web.JwtSecret)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	assert.Equal(t, filepath.Join("/tmp/stationery", "public", "uploads", "products"), cfg.UploadDir())
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfigReadsYamlFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("STATIONERY_WORKDIR", "")
	t.Setenv("STATIONERY_DB_TYPE", "")

	cfile := filepath.Join(t.TempDir(), "stationery.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
web:
  port: 9090
database:
  type: sqlite
  dsn: stationery.db
logger:
  mode: production
`), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "production", cfg.Logger.Mode)
}
