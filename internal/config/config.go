package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ChatEventsTopic    string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	// AccessKey protects the public chat endpoint (Bearer token).
	AccessKey string
	Jina      string
	Deepseek  string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "deepseek"
	LLMModel          string // e.g. "llama3", "deepseek-chat"
	DeepseekBaseURL   string
	RequestTimeoutSec int
}

type RagConfig struct {
	FaqFilePath         string
	SimilarityThreshold float64
	TopK                int
	MaxContextTokens    int
	CharsPerToken       int
	HistoryMessages     int
	HistoryBackend      string // "postgres", "redis", "memory" or "none"
	SanitizerMode       string // "strip" or "html"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ChatEventsTopic:    getEnv("CHAT_EVENTS_TOPIC", "CHAT_TURN_COMPLETED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			AccessKey: getEnv("API_ACCESS_KEY", ""),
			Jina:      getEnv("JINA_API_KEY", ""),
			Deepseek:  getEnv("DEEPSEEK_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			DeepseekBaseURL:   getEnv("DEEPSEEK_BASE_URL", ""),
			RequestTimeoutSec: getEnvAsInt("LLM_REQUEST_TIMEOUT", 120),
		},
		Rag: RagConfig{
			FaqFilePath:         getEnv("FAQ_FILE_PATH", "data/priority_context.json"),
			SimilarityThreshold: getEnvAsFloat("PRIORITY_SIMILARITY_THRESHOLD", 0.85),
			TopK:                getEnvAsInt("RAG_TOP_K", 3),
			MaxContextTokens:    getEnvAsInt("RAG_MAX_CONTEXT_TOKENS", 3000),
			CharsPerToken:       getEnvAsInt("RAG_CHARS_PER_TOKEN", 3),
			HistoryMessages:     getEnvAsInt("RAG_HISTORY_MESSAGES", 6),
			HistoryBackend:      getEnv("HISTORY_BACKEND", "postgres"),
			SanitizerMode:       getEnv("SANITIZER_MODE", "strip"),
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
