package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Neo4j         Neo4jConfig
	Keys          APIKeys
	Ai            AIConfig
	Consolidation ConsolidationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type APIKeys struct {
	Gemini    []string // Comma-separated in env, rotated on failure
	Cohere    string
	Anthropic string
}

type AIConfig struct {
	ProviderOrder     []string // Fallback priority, e.g. "gemini,cohere,anthropic"
	ProviderTimeout   time.Duration
	BreakerCooldown   time.Duration
	EmbeddingProvider string // "gemini" or "cohere"
	GeminiModel       string
	CohereModel       string
	AnthropicModel    string
}

type ConsolidationConfig struct {
	ScanInterval  time.Duration // How often the inactivity scanner runs
	IdleThreshold time.Duration // How long a session must be idle before consolidation
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Keys: APIKeys{
			Gemini:    getEnvAsList("GEMINI_API_KEYS"),
			Cohere:    getEnv("COHERE_API_KEY", ""),
			Anthropic: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Ai: AIConfig{
			ProviderOrder:     getEnvAsListWithDefault("AI_PROVIDER_ORDER", []string{"gemini", "cohere", "anthropic"}),
			ProviderTimeout:   getEnvAsDuration("AI_PROVIDER_TIMEOUT", 60*time.Second),
			BreakerCooldown:   getEnvAsDuration("AI_PROVIDER_FAILURE_TIMEOUT", 5*time.Minute),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
			CohereModel:       getEnv("COHERE_MODEL", "command-r-08-2024"),
			AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		},
		Consolidation: ConsolidationConfig{
			ScanInterval:  getEnvAsDuration("SESSION_SCAN_INTERVAL", 5*time.Minute),
			IdleThreshold: getEnvAsDuration("SESSION_IDLE_THRESHOLD", 30*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	// Accept both plain seconds ("300") and Go durations ("5m")
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	return getEnvAsListWithDefault(key, nil)
}

func getEnvAsListWithDefault(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
