package app

import (
	"os"
	"strconv"
	"time"

	"github.com/oakmount/stash/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: stash)

	KeyID          string        // Optional: identifier for the signing key (default: stash-key-001)
	SigningKeyFile string        // Optional: path to an Ed25519 private key in PEM; empty generates an ephemeral key
	TokenTTL       time.Duration // Optional: access token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./stash.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval  time.Duration // How often soft-deleted rows are purged (default: 1h)
	HousekeepingRetention time.Duration // How long soft-deleted rows linger before purge (default: 30d)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("STASH_ISSUER", "stash"),
		KeyID:          getEnvOrDefault("STASH_KEY_ID", "stash-key-001"),
		SigningKeyFile: os.Getenv("STASH_SIGNING_KEY_FILE"),
		TokenTTL:       getEnvDurationOrDefault("STASH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),

		DatabaseFile: getEnvOrDefault("STASH_DATABASE_FILE", "stash.db"),
		PepperFile:   getEnvOrDefault("STASH_PEPPER_FILE", "pepper"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:  getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		HousekeepingRetention: getEnvDurationOrDefault("HOUSEKEEPING_RETENTION", 30*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
