package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GYM_TIMEZONE", "Europe/Berlin")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("S3_BUCKET", "class-media")
	t.Setenv("S3_ACCESS_KEY_ID", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("GYM_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
