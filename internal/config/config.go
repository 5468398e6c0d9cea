package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port             string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	SerpAPIKey       string
	SerpAPIBaseURL   string
	S3Bucket         string
	AWSRegion        string
	PostgresURL      string
	AgentMaxSteps    int
	AgentTemperature float64
}

// MissingError names a required configuration value that was absent.
type MissingError struct {
	Key   string
	Label string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration %s (%s)", e.Key, e.Label)
}

func Load() Config {
	postgresURL := getEnv("POSTGRES_URL", "")
	if postgresURL == "" && os.Getenv("POSTGRES_HOST") != "" {
		postgresURL = buildPostgresURL()
	}
	return Config{
		Port:             getEnv("PORT", "8080"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
		SerpAPIKey:       getEnv("SERPAPI_API_KEY", ""),
		SerpAPIBaseURL:   getEnv("SERPAPI_BASE_URL", ""),
		S3Bucket:         getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:        getEnv("AWS_REGION", ""),
		PostgresURL:      postgresURL,
		AgentMaxSteps:    getEnvInt("AGENT_MAX_STEPS", 8),
		AgentTemperature: getEnvFloat("AGENT_TEMPERATURE", 0.7),
	}
}

// Validate reports the first missing required value. The four required values
// have no defaults; everything else in Config does.
func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return &MissingError{Key: "GEMINI_API_KEY", Label: "Gemini API Key"}
	}
	if c.SerpAPIKey == "" {
		return &MissingError{Key: "SERPAPI_API_KEY", Label: "SerpApi API Key"}
	}
	if c.S3Bucket == "" {
		return &MissingError{Key: "S3_BUCKET_NAME", Label: "report bucket name"}
	}
	if c.PostgresURL == "" {
		return &MissingError{Key: "POSTGRES_URL", Label: "task registry connection URL"}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func buildPostgresURL() string {
	user := getEnv("POSTGRES_USER", "research")
	password := getEnv("POSTGRES_PASSWORD", "research")
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	database := getEnv("POSTGRES_DB", "research")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, database)
}
