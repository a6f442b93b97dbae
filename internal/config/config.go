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
	Data      DataConfig
	Ai        AIConfig
	Recommend RecommendConfig
	Keys      APIKeys
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

type DataConfig struct {
	DatasetPath string
	ProfilesDir string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string
	EmbedCacheSize    int
	EmbedCacheBackend string // "memory" or "redis"
	RerankerURL       string
	RerankerModel     string
	RerankerEnabled   bool
}

type RecommendConfig struct {
	DefaultAlpha  float64
	VectorBackend string // "memory" or "pgvector"
}

type APIKeys struct {
	GoogleGemini     string
	Jina             string
	InteractionTopic string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Data: DataConfig{
			DatasetPath: getEnv("DATA_PATH", "data/dramas.json"),
			ProfilesDir: getEnv("PROFILES_DIR", "data/profiles"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedCacheSize:    getEnvAsInt("EMBED_CACHE_SIZE", 128),
			EmbedCacheBackend: getEnv("EMBED_CACHE_BACKEND", "memory"),
			RerankerURL:       getEnv("RERANKER_URL", ""),
			RerankerModel:     getEnv("RERANKER_MODEL", ""),
			RerankerEnabled:   getEnv("RERANKER_ENABLED", "false") == "true",
		},
		Recommend: RecommendConfig{
			DefaultAlpha:  getEnvAsFloat("DEFAULT_ALPHA", 0.7),
			VectorBackend: getEnv("VECTOR_BACKEND", "memory"),
		},
		Keys: APIKeys{
			GoogleGemini:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:             getEnv("JINA_API_KEY", ""),
			InteractionTopic: getEnv("INTERACTION_TOPIC_NAME", "DRAMA_INTERACTION"),
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
