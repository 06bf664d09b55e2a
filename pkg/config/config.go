package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
		BaseURL string
	}

	// Storage configuration
	Storage struct {
		Driver      string // file, memory, redis or postgres
		DataDir     string
		RedisAddr   string
		RedisPass   string
		RedisDB     int
		PostgresDSN string
	}

	// LLM provider configuration
	LLM struct {
		BaseURL     string
		APIKey      string
		Model       string
		Temperature float64
		MaxTokens   int
		Timeout     time.Duration
	}

	// JWT configuration
	JWT struct {
		Secret string
		Expiry time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		MaxBodySize    int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Moderation settings
	Moderation struct {
		Enabled          bool
		BannedWords      []string
		WarningThreshold int
	}

	// Cache settings
	Cache struct {
		Enabled     bool
		TTL         time.Duration
		MaxSize     int
		PurgeWindow time.Duration
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables.
// Uses singleton pattern to ensure only one instance exists.
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8081")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
		instance.Server.BaseURL = getEnvString("BASE_URL", "http://localhost:"+instance.Server.Port)

		// Storage config
		instance.Storage.Driver = getEnvString("STORAGE_DRIVER", "file")
		instance.Storage.DataDir = getEnvString("STORAGE_DATA_DIR", "data")
		instance.Storage.RedisAddr = getEnvString("REDIS_URL", "localhost:6379")
		instance.Storage.RedisPass = getEnvString("REDIS_PASSWORD", "")
		instance.Storage.RedisDB = getEnvInt("REDIS_DB", 0)
		instance.Storage.PostgresDSN = getEnvString("POSTGRES_DSN",
			"host=localhost port=5432 user=postgres password=postgres dbname=coolkid-chat sslmode=disable")

		// LLM config
		instance.LLM.BaseURL = getEnvString("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
		instance.LLM.APIKey = getEnvString("GROQ_API_KEY", "")
		instance.LLM.Model = getEnvString("GROQ_MODEL", "llama-3.3-70b-versatile")
		instance.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", 0.7)
		instance.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", 500)
		instance.LLM.Timeout = getEnvDuration("LLM_TIMEOUT", 30*time.Second)

		// JWT config
		instance.JWT.Secret = getEnvString("JWT_SECRET", "default-jwt-secret-do-not-use-in-production")
		instance.JWT.Expiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
		instance.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 1<<20) // 1MB

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Moderation config
		instance.Moderation.Enabled = getEnvBool("MODERATION_ENABLED", true)
		instance.Moderation.BannedWords = getEnvStringSlice("MODERATION_BANNED_WORDS",
			[]string{"badword1", "badword2", "inappropriate"})
		instance.Moderation.WarningThreshold = getEnvInt("MODERATION_WARNING_THRESHOLD", 10)

		// Cache settings
		instance.Cache.Enabled = getEnvBool("CACHE_ENABLED", true)
		instance.Cache.TTL = getEnvDuration("CACHE_TTL", 5*time.Minute)
		instance.Cache.MaxSize = getEnvInt("CACHE_MAX_SIZE", 1000)
		instance.Cache.PurgeWindow = getEnvDuration("CACHE_PURGE_WINDOW", 10*time.Minute)
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
