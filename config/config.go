// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Zero values mean "not configured".
type Config struct {
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string

	ContentDir string
	PlayerID   string
	Listen     string
}

// Load reads .env (if present) and the environment. Missing keys fall back
// to sensible local defaults.
func Load() Config {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()

	cfg := Config{
		PostgresURL:   os.Getenv("QUIZQUEST_POSTGRES_URL"),
		RedisAddr:     os.Getenv("QUIZQUEST_REDIS_ADDR"),
		RedisPassword: os.Getenv("QUIZQUEST_REDIS_PASSWORD"),
		RedisDB:       envInt("QUIZQUEST_REDIS_DB", 0),
		SQLitePath:    envDefault("QUIZQUEST_SQLITE_PATH", filepath.Join(home, ".quizquest", "progress.db")),
		ContentDir:    envDefault("QUIZQUEST_CONTENT_DIR", "content"),
		PlayerID:      envDefault("QUIZQUEST_PLAYER_ID", "local"),
		Listen:        envDefault("QUIZQUEST_LISTEN", ":8080"),
	}
	return cfg
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
