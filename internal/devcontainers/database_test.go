package devcontainers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_DATABASE", "rooms")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_TMPFS", "false")

	opts := OptionsFromEnv()
	assert.Equal(t, "postgres", opts.Type)
	assert.Equal(t, "rooms", opts.Database)
	assert.Equal(t, "roomscan", opts.User)
	assert.False(t, opts.Tmpfs)
}

func TestDatabaseConfig(t *testing.T) {
	db := &Database{
		Options: Options{Type: "mariadb", Database: "rooms", User: "u", Password: "p"},
		Host:    "localhost",
		Port:    "49153",
	}

	cfg := db.Config()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "mariadb", cfg.DBType)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "49153", cfg.DBPort)
	assert.Equal(t, "rooms", cfg.DBDatabase)
}

func TestStartUnsupportedType(t *testing.T) {
	_, err := Start(t.Context(), Options{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestFlavorsCoverDefaultImages(t *testing.T) {
	for name, f := range flavors {
		assert.NotEmpty(t, f.image, name)
		assert.NotEmpty(t, f.dataDir, name)
		env := f.env(Options{Database: "d", User: "u", Password: "p"})
		assert.NotEmpty(t, env, name)
	}
}
