// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the whole service configuration, loaded from the environment.
// A .env file is honored via godotenv autoload in main.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	Postgres PostgresConfig
	Redis    RedisConfig

	// RelocateAttempts is the per-member retry budget when moving players
	// onto an arena's host server.
	RelocateAttempts int `env:"RELOCATE_ATTEMPTS" envDefault:"10"`

	// RefreshIntervalSec drives how often room watchers get a fresh
	// snapshot.
	RefreshIntervalSec int `env:"REFRESH_INTERVAL_SEC" envDefault:"2"`

	// AllowJoinInProgress permits joining rooms that have already launched.
	AllowJoinInProgress bool `env:"ALLOW_JOIN_IN_PROGRESS" envDefault:"false"`

	// APITokenHash is the argon2id hash of the operator API token. Empty
	// disables the operator endpoints.
	APITokenHash string `env:"API_TOKEN_HASH"`
}

// PostgresConfig holds the room/invite store connection parts.
type PostgresConfig struct {
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     string `env:"PG_PORT" envDefault:"5432"`
	Database string `env:"PG_DATABASE" envDefault:"gamerooms"`
}

// ConnString renders a pgx connection string.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig holds the arena directory / proxy mirror connection.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
