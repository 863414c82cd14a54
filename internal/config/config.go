package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port              string
	Env               string
	DatabaseDSN       string
	MigrationsPath    string
	JWTSecret         string
	TokenTTL          time.Duration
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
}

func Load() Config {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/classiflow?parseTime=true"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "migrations"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:          7 * 24 * time.Hour,
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "meta-llama/llama-3-8b-instruct"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
