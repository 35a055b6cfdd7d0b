package web

import (
	"github.com/indirizzi-api/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// AuthConfig contains the shared API key
type AuthConfig struct {
	APIKey string
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool
}

// ConfigFrom derives the server settings from the service configuration
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Server:  ServerConfig{Port: cfg.Port, Host: cfg.Host},
		Auth:    AuthConfig{APIKey: cfg.APIKey},
		Metrics: MetricsConfig{Enabled: cfg.MetricsEnabled},
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8000, Host: "0.0.0.0"},
		Auth:    AuthConfig{APIKey: config.DefaultAPIKey},
		Metrics: MetricsConfig{Enabled: true},
	}
}
