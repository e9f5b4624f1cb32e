// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment (and an optional .env file).
type Config struct {
	AppEnv     string
	ListenAddr string
	LogLevel   string

	DatabaseURL string // Empty runs on the in-memory store.

	RedisAddr       string // Empty disables the session cache and cross-process events.
	RedisPassword   string
	RedisDB         int
	SessionCacheTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	GameSeed uint64 // 0 seeds from the clock.
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an env lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		AppEnv:        get("APP_ENV", "production"),
		ListenAddr:    get("LISTEN_ADDR", ":8080"),
		LogLevel:      get("LOG_LEVEL", "info"),
		DatabaseURL:   get("DATABASE_URL", ""),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		JWTSecret:     get("JWT_SECRET", ""),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.SessionCacheTTL, err = time.ParseDuration(get("SESSION_CACHE_TTL", "10m")); err != nil {
		return Config{}, fmt.Errorf("parse SESSION_CACHE_TTL: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	if cfg.GameSeed, err = strconv.ParseUint(get("GAME_SEED", "0"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("parse GAME_SEED: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "development" {
			return Config{}, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "development-secret"
	}
	return cfg, nil
}
