package config

import (
	"errors"
	"os"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port      string
	JWTSecret string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr string

	GeminiAPIKey string
	GeminiModel  string

	ExportSchedule string
	ExportDir      string
	ExportEnabled  bool
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "hirehub"),
		PostgresSSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		ExportSchedule: getEnvOrDefault("ATTEMPT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:      getEnvOrDefault("ATTEMPT_EXPORT_DIR", "./exports"),
		ExportEnabled:  getEnvOrDefault("ATTEMPT_EXPORT_ENABLED", "false") == "true",
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
