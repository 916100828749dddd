package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Media storage
	MediaDir     string
	MediaBaseURL string
	S3Bucket     string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets for sensitive values, and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getenv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getenv("SERVER_PORT", "8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenvOrSecret("DB_USER", "db_user", "foodgram"),
		DBPassword: getenvOrSecret("DB_PASSWORD", "db_password", ""),
		DBName:     getenv("DB_NAME", "foodgram"),
		DBSSLMode:  getenv("DB_SSL_MODE", "disable"),

		RedisHost:     getenv("REDIS_HOST", "localhost"),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: getenvOrSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      getenv("REDIS_URL", ""),

		JWTSecret: getenvOrSecret("JWT_SECRET", "jwt_secret", ""),

		MediaDir:     getenv("MEDIA_DIR", "media"),
		MediaBaseURL: getenv("MEDIA_BASE_URL", ""),
		S3Bucket:     getenv("S3_BUCKET_NAME", ""),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// getenvOrSecret prefers the environment variable and falls back to a
// Docker secret file of the given name.
func getenvOrSecret(envName, secretName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
