package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string `env:"PORT" env-default:"3000"`
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"*"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string `env:"LOG_FORMAT" env-default:"json"`

	// Database configuration
	DBType            string `env:"DB_TYPE" env-default:"sqlite-pure"` // mysql, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string `env:"DB_HOST" env-default:"localhost"`
	DBPort            string `env:"DB_PORT" env-default:"3306"`
	DBDatabase        string `env:"DB_DATABASE"`
	DBUser            string `env:"DB_USER"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT" env-default:"5"`

	// Authorizer configuration. Admin routes are open when AuthzURL is empty.
	AuthzURL      string `env:"AUTHZ_URL"`
	AuthzClientID string `env:"AUTHZ_CLIENT_ID"`

	// Jobs
	MetricsCron string `env:"METRICS_CRON" env-default:"0 0 * * *"`
	SeedOnStart bool   `env:"SEED_ON_START" env-default:"false"`
}

// Load loads configuration from environment variables, after applying the
// optional dotenv file named by ENV_FILE.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required and dependent fields
func (c *Config) Validate() error {
	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if c.DBConnectionLimit < 1 {
		return fmt.Errorf("DB_CONNECTION_LIMIT must be positive, got %d", c.DBConnectionLimit)
	}
	if c.AuthzURL != "" && c.AuthzClientID == "" {
		return fmt.Errorf("AUTHZ_CLIENT_ID is required when AUTHZ_URL is set")
	}
	return nil
}

// AuthEnabled reports whether admin routes are guarded by the Authorizer
func (c *Config) AuthEnabled() bool {
	return c.AuthzURL != ""
}

// IsSQLite reports whether the configured database is one of the sqlite drivers
func (c *Config) IsSQLite() bool {
	return strings.HasPrefix(c.DBType, "sqlite")
}
