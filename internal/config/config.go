package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "ollama" for now
	LLMModel          string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL     string
	EmbeddingModel    string // e.g. "nomic-embed-text"
	EmbedContentTopic string
}

type RetrievalConfig struct {
	MinQueryLen  int
	PerTypeLimit int
	TotalLimit   int
	// LanguagePenalty scales down the normalized score of items whose
	// language differs from the query language. Penalty, not exclusion.
	LanguagePenalty float64
}

type AssistantConfig struct {
	// ReadinessWaitSeconds bounds how long a chat turn waits for the model
	// before taking the fallback path.
	ReadinessWaitSeconds int
	HistoryLimit         int
	PromptCharBudget     int
	SessionIdleMinutes   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedContentTopic: getEnv("EMBED_PRODUCT_CONTENT_TOPIC_NAME", "EMBED_PRODUCT_CONTENT"),
		},
		Retrieval: RetrievalConfig{
			MinQueryLen:     getEnvAsInt("RETRIEVAL_MIN_QUERY_LEN", 2),
			PerTypeLimit:    getEnvAsInt("RETRIEVAL_PER_TYPE_LIMIT", 5),
			TotalLimit:      getEnvAsInt("RETRIEVAL_TOTAL_LIMIT", 8),
			LanguagePenalty: getEnvAsFloat("RETRIEVAL_LANGUAGE_PENALTY", 0.25),
		},
		Assistant: AssistantConfig{
			ReadinessWaitSeconds: getEnvAsInt("ASSISTANT_READINESS_WAIT_SECONDS", 3),
			HistoryLimit:         getEnvAsInt("ASSISTANT_HISTORY_LIMIT", 10),
			PromptCharBudget:     getEnvAsInt("ASSISTANT_PROMPT_CHAR_BUDGET", 6000),
			SessionIdleMinutes:   getEnvAsInt("ASSISTANT_SESSION_IDLE_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
