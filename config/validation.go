package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every field the server cannot run without is
// populated. Production additionally requires the secrets that default to
// empty elsewhere.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"SERVER_HOST": cfg.ServerHost,
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_NAME":     cfg.DBName,
		"DB_SSL_MODE": cfg.DBSSLMode,
	}
	for name, value := range required {
		if value == "" {
			errs = append(errs, fmt.Sprintf("required configuration %s is not set", name))
		}
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET (or the jwt_secret secret) is required")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required in production")
		}
		if cfg.RedisPassword == "" && cfg.RedisURL == "" {
			errs = append(errs, "REDIS_PASSWORD or REDIS_URL is required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
