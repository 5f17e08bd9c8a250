package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Auth
	JWTSecret string
	// Completion provider
	AnthropicAPIKey string
	Model           string
	ProviderTimeout time.Duration
	// Optional file logging (empty = stdout only)
	LogDir string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TablePrefix:     getTablePrefix(env),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:5173"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		Model:           getEnv("MODEL", "claude-haiku-4-5-20251001"),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 30*time.Second),
		LogDir:          getEnv("LOG_DIR", ""),
	}
}

// IsProduction reports whether the server runs in a production-like
// deployment. Session cookies carry Secure + SameSite=None only then.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
