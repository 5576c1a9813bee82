// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

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
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dramacsoport/petclinic-backend/pkg/slice"
)

// # Configuration Schema

// Config holds all runtime configuration for the clinic API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — login throttling counters
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing secret, loaded once and constant for the process lifetime.
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTTTL is the lifetime of issued session tokens.
	JWTTTL time.Duration `env:"JWT_TTL" envDefault:"4h"`

	// Outbound mail (registration notifications, best-effort)
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// ClinicEmail is the From address for notification mail.
	ClinicEmail string `env:"CLINIC_EMAIL" envDefault:"noreply@petclinic.app"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
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

	return cfg, nil
}

// MailEnabled reports whether an SMTP relay is configured.
// When false, notification mail is logged instead of sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// AllowedExtraOrigins returns the additional CORS origins from EXTRA_ORIGINS,
// a comma-separated list. Whitespace and empty entries are discarded.
func (c *Config) AllowedExtraOrigins() []string {
	trimmed := slice.Map(strings.Split(c.ExtraOrigins, ","), strings.TrimSpace)
	return slice.Filter(trimmed, func(origin string) bool { return origin != "" })
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
