package config

import (
	"log"
	"os"
)

const (
	// The default store is in-memory: calculation history lives only for the
	// current server session.
	defaultDBPath = ":memory:"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	SessionSecret string
	DBPath        string
	Port          string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set; session cookies are signed with an empty key")
	}

	return cfg
}
