package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "leaver", cfg.LeaverUsername)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Contains(t, cfg.AllowedOrigins, "https://a.example")
	assert.Contains(t, cfg.AllowedOrigins, "https://b.example")
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:5173")
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/inkwell")

	_, err := Load()
	require.Error(t, err)
}

func TestDurationParsing(t *testing.T) {
	t.Setenv("TOKEN_SWEEP_INTERVAL", "90")
	assert.Equal(t, 90*time.Second, getEnvDuration("TOKEN_SWEEP_INTERVAL", time.Minute))

	t.Setenv("TOKEN_SWEEP_INTERVAL", "2m")
	assert.Equal(t, 2*time.Minute, getEnvDuration("TOKEN_SWEEP_INTERVAL", time.Minute))

	t.Setenv("TOKEN_SWEEP_INTERVAL", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("TOKEN_SWEEP_INTERVAL", time.Minute))
}

func TestValidateDriver(t *testing.T) {
	cfg := &Config{
		DBDriver:        "mysql",
		DatabaseURL:     "x",
		JWTSecret:       "s",
		LeaverUsername:  "leaver",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	}
	assert.Error(t, cfg.Validate())

	cfg.DBDriver = "postgres"
	assert.NoError(t, cfg.Validate())
}
