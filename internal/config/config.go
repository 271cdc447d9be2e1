package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	NatsURL     string
	RedisURL    string
	DocsPath    string // knowledge-base directory with protocol files
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string // e.g. "llama3", "gemini-2.0-flash"
}

// PipelineConfig carries the decision-pipeline tunables. The thresholds are
// heuristics from the hospital deployment, exposed rather than hardcoded.
type PipelineConfig struct {
	MaxLoops          int
	TopK              int
	SearchThreshold   float64 // minimum retrieval similarity
	GradingThreshold  float64 // lexical-overlap keep threshold
	SemanticThreshold float64 // grounding cosine threshold
	KeywordThreshold  float64 // grounding keyword-overlap threshold
	EliminationPolicy string  // "fallback_unfiltered" | "reformulate"
	UseLLMGrading     bool
	UseLLMRelevance   bool
	SearchTimeout     time.Duration
	GenerateTimeout   time.Duration
	CacheTTL          time.Duration
	BreakerFailMax    int
	BreakerResetAfter time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/assistant.log"),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			DocsPath:    getEnv("DOCS_PATH", "docs/knowledge_base"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
		},
		Pipeline: PipelineConfig{
			MaxLoops:          getEnvAsInt("PIPELINE_MAX_LOOPS", 3),
			TopK:              getEnvAsInt("PIPELINE_TOP_K", 10),
			SearchThreshold:   getEnvAsFloat("SEARCH_THRESHOLD", 0.35),
			GradingThreshold:  getEnvAsFloat("GRADING_THRESHOLD", 0.05),
			SemanticThreshold: getEnvAsFloat("GROUNDING_SEMANTIC_THRESHOLD", 0.4),
			KeywordThreshold:  getEnvAsFloat("GROUNDING_KEYWORD_THRESHOLD", 0.1),
			EliminationPolicy: getEnv("GRADING_ELIMINATION_POLICY", "fallback_unfiltered"),
			UseLLMGrading:     getEnvAsBool("USE_LLM_GRADING", true),
			UseLLMRelevance:   getEnvAsBool("USE_LLM_RELEVANCE", true),
			SearchTimeout:     getEnvAsDuration("SEARCH_TIMEOUT", 15*time.Second),
			GenerateTimeout:   getEnvAsDuration("GENERATE_TIMEOUT", 60*time.Second),
			CacheTTL:          getEnvAsDuration("CACHE_TTL", time.Hour),
			BreakerFailMax:    getEnvAsInt("BREAKER_FAIL_MAX", 5),
			BreakerResetAfter: getEnvAsDuration("BREAKER_RESET_AFTER", 60*time.Second),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
