package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	// Storage configuration
	StorageDriver string // "memory" (default) or "sqlite"
	DatabasePath  string // SQLite file path when StorageDriver is "sqlite"

	// OpenAI-compatible generator configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration
	OpenAIRPM     int // outbound requests per minute to the generator

	// Scheduled weekly report job
	ReportScheduleEnabled bool
	ReportScheduleCron    string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StorageDriver: getEnv("STORAGE_DRIVER", "memory"),
		DatabasePath:  getEnv("DATABASE_PATH", "./projectpulse.db"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAITimeout: time.Duration(getIntEnv("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,
		OpenAIRPM:     getIntEnv("OPENAI_RPM", 20),

		ReportScheduleEnabled: getBoolEnv("REPORT_SCHEDULE_ENABLED", false),
		// Monday 09:00 UTC
		ReportScheduleCron: getEnv("REPORT_SCHEDULE_CRON", "0 9 * * 1"),
	}
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable with a fallback default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a fallback default
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
