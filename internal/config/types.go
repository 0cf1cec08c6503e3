package config

import "time"

// Config holds everything the server reads from the environment.
type Config struct {
	DatabaseURL   string
	RedisURL      string
	SessionSecret string
	SessionTTL    time.Duration
	Environment   string
	BaseURL       string
	Port          string

	// external identity providers; a provider is registered only
	// when its settings are present
	SupabaseJWTSecret  string
	FirebaseAPIKey     string
	GoogleClientID     string
	GoogleClientSecret string
}

// reports whether the server runs with production hardening enabled
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
