package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	APIPrefix string `env:"API_PREFIX, default=/api/v1"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	DB DBConfig
}

// DBConfig holds the database connection and pool settings.
type DBConfig struct {
	Driver   string `env:"DB_DRIVER,   default=postgres"`
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     string `env:"DB_PORT,     default=5432"`
	User     string `env:"DB_USER,     default=postgres"`
	Password string `env:"DB_PASSWORD, default=postgres"`
	Name     string `env:"DB_NAME,     default=userdb"`
	SSLMode  string `env:"DB_SSLMODE,  default=disable"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,     default=20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,     default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,  default=30m"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in production mode. Production
// mode switches gin to release mode and strips stack traces from 500 bodies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
