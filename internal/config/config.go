// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for every optional block.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before
	// anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the JERSEY_ prefix. The prefix is stripped, the
	key is lowercased and a double underscore marks nesting:

		JERSEY_SERVER__PORT            -> server.port    -> Config.Server.Port
		JERSEY_DATABASE__URL           -> database.url   -> Config.Database.URL
		JERSEY_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level

	Values of list-typed keys are comma separated.
*/

const (
	// EnvPrefix is the prefix every configuration variable carries.
	EnvPrefix = "JERSEY_"

	// DatabaseURLEnv is the conventional, unprefixed connection string
	// variable. It is honoured when JERSEY_DATABASE__URL is not set.
	DatabaseURLEnv = "DATABASE_URL"

	// DefaultDatabaseURL points at a local file-backed database.
	DefaultDatabaseURL = "sqlite://jersey_rota.db"

	// ServiceName labels logs and traces.
	ServiceName = "jersey-rota"
)

// listKeys are decoded from comma separated env values.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":       true,
	"observability.health_checks.checks": true,
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig holds the connection string and pool tuning.
//
// URL selects the backend by scheme: postgres:// or postgresql:// for
// PostgreSQL, sqlite:// or file: for a local SQLite file.
// Lifetimes are expressed in seconds.
type DatabaseConfig struct {
	URL             string `koanf:"url" validate:"required"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required,min=1"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required,min=1"`
}

// DefaultConfig returns a configuration usable for local development.
// Environment variables override individual fields.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Port:               "8000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			ShutdownTimeout:    30,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			AutoMigrate:     true,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Database.URL == "" {
		mainConfig.Database.URL = os.Getenv(DatabaseURLEnv)
	}
	if mainConfig.Database.URL == "" {
		mainConfig.Database.URL = DefaultDatabaseURL
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize validates the struct tags, fills observability defaults and
// validates the observability block.
func (c *Config) finalize() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are not user-configurable.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
