package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers        []string
	KafkaComplaintTopic string

	// Sentiment API (APILayer-compatible)
	SentimentAPIKey     string
	SentimentAPIURL     string
	SentimentAPITimeout time.Duration

	// Category LLM (OpenAI-compatible chat completions)
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIMaxTokens   int
	OpenAITemperature float64
	OpenAITimeout     time.Duration

	// Geolocation / spam check
	IPAPIURL      string
	GeoAPITimeout time.Duration
	GeoCacheTTL   time.Duration

	// Complaints
	CategoryLabelsPath  string
	ComplaintMaxTextLen int
	ListDefaultLimit    int
	ListMaxLimit        int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "complaints"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "complaints123"),
		PostgresDB:       getEnv("POSTGRES_DB", "complaints"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:        getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaComplaintTopic: getEnv("KAFKA_COMPLAINT_TOPIC", ""),

		SentimentAPIKey:     getEnv("SENTIMENT_API_KEY", ""),
		SentimentAPIURL:     getEnv("SENTIMENT_API_URL", "https://api.apilayer.com/sentiment_analysis"),
		SentimentAPITimeout: getDuration("SENTIMENT_API_TIMEOUT", 10*time.Second),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIMaxTokens:   getIntEnv("OPENAI_MAX_TOKENS", 50),
		OpenAITemperature: getFloatEnv("OPENAI_TEMPERATURE", 0.1),
		OpenAITimeout:     getDuration("OPENAI_TIMEOUT", 30*time.Second),

		IPAPIURL:      getEnv("IP_API_URL", "http://ip-api.com/json"),
		GeoAPITimeout: getDuration("GEO_API_TIMEOUT", 10*time.Second),
		GeoCacheTTL:   getDuration("GEO_CACHE_TTL", 6*time.Hour),

		CategoryLabelsPath:  getEnv("CATEGORY_LABELS_PATH", ""),
		ComplaintMaxTextLen: getIntEnv("COMPLAINT_MAX_TEXT_LEN", 2000),
		ListDefaultLimit:    getIntEnv("LIST_DEFAULT_LIMIT", 20),
		ListMaxLimit:        getIntEnv("LIST_MAX_LIMIT", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
