package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("ARCHIVE_INTERVAL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, DefaultArchiveInterval, cfg.ArchiveInterval)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "80")

	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/msghub")
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com, https://admin.example.com ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://chat.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresDSNOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigArchiveSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/msghub")
	t.Setenv("S3_BUCKET_NAME", "transcripts")
	t.Setenv("S3_ENDPOINT", "")

	_, err := LoadConfig()
	assert.Error(t, err, "bucket without endpoint must be rejected")

	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("ARCHIVE_INTERVAL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, 5*time.Minute, cfg.ArchiveInterval)
}

func TestLoadConfigRejectsTooShortArchiveInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/msghub")
	t.Setenv("ARCHIVE_INTERVAL", "10s")

	_, err := LoadConfig()
	assert.Error(t, err)
}
