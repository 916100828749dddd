package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigReadsSecretFiles(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("db-pass"), 0o600))
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("SECRETS_DIR", secretsDir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	// Secret files win over the fallback and are trimmed.
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "db-pass", cfg.DBPassword)
}

func TestLoadConfigEnvBeatsSecretFile(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-file"), 0o600))
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SECRETS_DIR", secretsDir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoadConfigInvalidRedisDB(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidateConfigProduction(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{
		ServerHost: "0.0.0.0",
		ServerPort: "8080",
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "foodgram",
		DBName:     "foodgram",
		DBSSLMode:  "require",
		JWTSecret:  "secret",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "REDIS_PASSWORD")

	cfg.DBPassword = "pass"
	cfg.RedisURL = "redis://:pass@redis:6379/0"
	assert.NoError(t, ValidateConfig(cfg))
}
