// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Notify      NotifyConfig  `toml:"notify"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds local cache and remote store configuration.
type StorageConfig struct {
	Cache  CacheConfig  `toml:"cache"`  // Local ledger cache (BadgerHold)
	Remote RemoteConfig `toml:"remote"` // Remote document store (SurrealDB)
}

// CacheConfig holds the local BadgerHold cache path.
type CacheConfig struct {
	Path string `toml:"path"`
}

// RemoteConfig holds SurrealDB connection settings for the remote store.
type RemoteConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// AuthConfig holds JWT session token configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// NotifyConfig holds notification settings.
type NotifyConfig struct {
	DismissAfter string `toml:"dismiss_after"` // duration string, default "3.5s"
}

// GetDismissAfter parses and returns the notification auto-dismiss duration.
func (c *NotifyConfig) GetDismissAfter() time.Duration {
	d, err := time.ParseDuration(c.DismissAfter)
	if err != nil {
		return 3500 * time.Millisecond
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Cache: CacheConfig{Path: "data/cache"},
			Remote: RemoteConfig{
				Address:   "ws://localhost:8000",
				Username:  "root",
				Password:  "root",
				Namespace: "folio",
				Database:  "folio",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Notify: NotifyConfig{
			DismissAfter: "3.5s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_CACHE_PATH"); path != "" {
		config.Storage.Cache.Path = path
	}

	if addr := os.Getenv("FOLIO_REMOTE_ADDRESS"); addr != "" {
		config.Storage.Remote.Address = addr
	}
	if user := os.Getenv("FOLIO_REMOTE_USERNAME"); user != "" {
		config.Storage.Remote.Username = user
	}
	if pass := os.Getenv("FOLIO_REMOTE_PASSWORD"); pass != "" {
		config.Storage.Remote.Password = pass
	}

	if v := os.Getenv("FOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
