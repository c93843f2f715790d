package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Database
	DatabaseURL string

	// Token verification (ES256 + JWKS)
	JWKSURL  string
	Issuer   string
	Audience string

	// Legacy HS256 fallback, disable-able independently of the primary
	// verifier.
	LegacyAuthEnabled bool
	LegacyHMACSecret  string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Renewal Scheduler
	RenewalInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnv("RENEWAL_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENEWAL_INTERVAL: %w", err)
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWKSURL:  getEnv("JWKS_URL", ""),
		Issuer:   getEnv("TOKEN_ISSUER", ""),
		Audience: getEnv("TOKEN_AUDIENCE", ""),

		LegacyAuthEnabled: getEnv("LEGACY_AUTH_ENABLED", "false") == "true",
		LegacyHMACSecret:  getEnv("LEGACY_HMAC_SECRET", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),

		RenewalInterval: interval,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWKSURL == "" {
		return fmt.Errorf("JWKS_URL is required")
	}
	if c.Issuer == "" {
		return fmt.Errorf("TOKEN_ISSUER is required")
	}
	if c.LegacyAuthEnabled && c.LegacyHMACSecret == "" {
		return fmt.Errorf("LEGACY_HMAC_SECRET is required when LEGACY_AUTH_ENABLED=true")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
