package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is read from the environment after an optional .env file.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL"`
	DatabaseDriver  string        `env:"DATABASE_DRIVER" envDefault:"postgres"`
	MigrationsTable string        `env:"MIGRATIONS_TABLE" envDefault:"schema_migrations"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsNS       string        `env:"METRICS_NAMESPACE" envDefault:"casadf"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	SlowQuery       time.Duration `env:"DB_SLOW_QUERY" envDefault:"200ms"`
}

// Load reads envFile when it exists, then parses the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}
	if c.MigrationsTable == "" {
		return fmt.Errorf("MIGRATIONS_TABLE must not be empty")
	}
	return nil
}
