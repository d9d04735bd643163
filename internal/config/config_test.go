package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()

	assert.Equal(t, ":3000", c.Address)
	assert.Equal(t, time.Hour, c.JWTExpiry)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_FORMAT", "json")

	c := Load()

	assert.Equal(t, ":8080", c.Address)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 30*time.Minute, c.JWTExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoadIgnoresInvalidExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-duration")

	c := Load()

	assert.Equal(t, time.Hour, c.JWTExpiry)
}
