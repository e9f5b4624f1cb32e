// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"APP_ENV": "development"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.SessionCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "development-secret", cfg.JWTSecret)
	assert.Zero(t, cfg.GameSeed)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LISTEN_ADDR":       ":9000",
		"DATABASE_URL":      "postgres://kokodi@localhost/kokodi",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_DB":          "2",
		"SESSION_CACHE_TTL": "30s",
		"JWT_SECRET":        "prod-secret",
		"TOKEN_TTL":         "1h",
		"GAME_SEED":         "1234",
		"LOG_LEVEL":         "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "postgres://kokodi@localhost/kokodi", cfg.DatabaseURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.SessionCacheTTL)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, uint64(1234), cfg.GameSeed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromLookup_Errors(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"missing secret in production": {},
		"bad redis db":                 {"JWT_SECRET": "x", "REDIS_DB": "two"},
		"bad cache ttl":                {"JWT_SECRET": "x", "SESSION_CACHE_TTL": "soon"},
		"bad token ttl":                {"JWT_SECRET": "x", "TOKEN_TTL": "-"},
		"negative seed":                {"JWT_SECRET": "x", "GAME_SEED": "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}
