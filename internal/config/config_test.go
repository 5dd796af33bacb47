package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DATABASE", "roomscan.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite-pure", cfg.DBType)
	assert.Equal(t, 5, cfg.DBConnectionLimit)
	assert.Equal(t, "0 0 * * *", cfg.MetricsCron)
	assert.False(t, cfg.AuthEnabled())
	assert.True(t, cfg.IsSQLite())
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_DATABASE", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DATABASE")
}

func TestLoadRequiresClientIDWithAuthorizer(t *testing.T) {
	t.Setenv("DB_DATABASE", "roomscan.db")
	t.Setenv("AUTHZ_URL", "http://authorizer:8080")
	t.Setenv("AUTHZ_CLIENT_ID", "")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTHZ_CLIENT_ID")
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DATABASE=from-file.db\nDB_TYPE=postgres\nSEED_ON_START=true\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides variables that are already set, so clear them
	// through t.Setenv to have them restored after the test.
	t.Setenv("DB_DATABASE", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("SEED_ON_START", "")
	os.Unsetenv("DB_DATABASE")
	os.Unsetenv("DB_TYPE")
	os.Unsetenv("SEED_ON_START")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DBDatabase)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.True(t, cfg.SeedOnStart)
	assert.False(t, cfg.IsSQLite())
}
