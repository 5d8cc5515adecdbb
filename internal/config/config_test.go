package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "clubhub", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, "secretary@clubhub.local", cfg.BootstrapSecretaryEmail)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_SERVICE", "clubhub-test")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "50")

	cfg := Load()

	assert.Equal(t, "clubhub-test", cfg.AppName)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 15*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, 50, cfg.DBMaxOpenConn)
	assert.True(t, cfg.IsProduction())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "soon")
	t.Setenv("DATABASE_MAX_IDLE_CONN", "many")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, 5, cfg.DBMaxIdleConn)
}
