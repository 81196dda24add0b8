package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("ALLOWED_EXTENSIONS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, devJWTSecret, cfg.JWTSecretKey)
	assert.Equal(t, "g-key", cfg.LLMAPIKey)
	assert.Equal(t, []string{"pdf", "doc", "docx", "txt"}, cfg.AllowedExtensions)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ALLOWED_EXTENSIONS", " PDF, txt ,,")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("JWT_EXPIRY_HOURS", "oops")

	cfg := Load()
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5, cfg.MaxFileSizeMB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, []string{"pdf", "txt"}, cfg.AllowedExtensions)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestMissingProductionKeys(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", StorageBackend: "local"}
	assert.Equal(t, []string{"JWT_SECRET_KEY", "LLM_API_KEY", "DATABASE_URL"}, cfg.missingProductionKeys())

	cfg = &Config{JWTSecretKey: "x", LLMAPIKey: "y", DBDriver: "sqlite"}
	assert.Empty(t, cfg.missingProductionKeys())
}
