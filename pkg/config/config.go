package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL takes precedence over the discrete DB_* settings when set
	// (hosted Postgres / pooler DSNs). DIRECT_URL is used for migrations.
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	LogLevel string

	// PortalSigningSecret signs customer portal links (HS256). Required in
	// production; a dev default is applied outside prod so the portal works
	// out of the box.
	PortalSigningSecret string

	// PortalTokenTTLHours controls how long a minted portal link stays valid.
	PortalTokenTTLHours int

	// PortalAllowedOrigins is a comma-separated allowlist of origins allowed
	// to call the public portal endpoints from a separate frontend domain.
	PortalAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	appEnv := env("APP_ENV", "dev")

	signingSecret := os.Getenv("PORTAL_SIGNING_SECRET")
	if signingSecret == "" && appEnv != "prod" {
		signingSecret = "dev-portal-secret"
	}

	return Config{
		AppEnv:         appEnv,
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "rentalmanager"),
			User:     env("DB_USER", "rentalmanager"),
			Password: env("DB_PASSWORD", "rentalmanager"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		LogLevel:             env("LOG_LEVEL", "info"),
		PortalSigningSecret:  signingSecret,
		PortalTokenTTLHours:  envInt("PORTAL_TOKEN_TTL_HOURS", 72),
		PortalAllowedOrigins: envList("PORTAL_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
