// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cursos API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — failed-login throttling.
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret is the raw HS256 signing key material. Its minimum length is
	// enforced by the token service at startup, not here, so the weak-key
	// failure carries the exact byte counts in its message.
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTExpirationMinutes is the access-token lifetime in minutes.
	JWTExpirationMinutes int `env:"JWT_EXPIRATION_MINUTES" envDefault:"60"`

	// Bootstrap admin account, created at startup if it does not exist.
	// Leave both empty to skip seeding (e.g. when accounts are provisioned
	// out of band).
	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.JWTExpirationMinutes <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRATION_MINUTES must be positive, got %d", cfg.JWTExpirationMinutes)
	}

	return cfg, nil
}

// TokenLifetime returns the configured access-token lifetime as a [time.Duration].
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
