package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config carries all runtime settings. It is built once in main and passed
// to the pieces that need it; nothing reads the environment after Load.
type Config struct {
	PostgresURI    string `validate:"required"`
	RedisURI       string
	Port           string `validate:"required,numeric"`
	Environment    string
	UploadDir      string `validate:"required"`
	AllowedOrigins []string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS is wide open: the API carries no credentials and no auth.
	// Revisit the default before any authentication is added.
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/journal?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", ""),
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: allowedOrigins,
	}
}

// Validate reports a configuration that cannot serve requests.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
