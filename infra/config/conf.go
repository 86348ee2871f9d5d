package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Validator *validator.Validate
}

// AppConfig represents the application configuration
type AppConfig struct {
	Port                    string
	Environment             string
	APIKey                  string
	OpenSearchURL           string
	OpenSearchUser          string
	OpenSearchPass          string
	OpenSearchIndexPrefix   string
	EnableLogging           bool
	LoggingLevel            string
	LogFormat               string
	TranscriptsEnabled      bool
	TranscriptDBPath        string
	TranscriptRetentionDays int
	RateLimitPerMinute      int
	AllowedIPs              []string
	TrustedProxies          []string
}

var (
	instance          *Config
	instanceOnce      sync.Once
	appConfigInstance *AppConfig
	appConfigOnce     sync.Once
)

func App() *Config {
	instanceOnce.Do(func() {
		instance = &Config{
			Validator: validator.New(),
		}
	})
	return instance
}

// GetAppConfig returns the application configuration, read once from the environment
func GetAppConfig() *AppConfig {
	appConfigOnce.Do(func() {
		appConfigInstance = LoadAppConfig()
	})
	return appConfigInstance
}

// LoadAppConfig reads the application configuration from the environment
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		Port:                    GetEnv("APP_PORT", "9999"),
		Environment:             GetEnv("ENVIRONMENT", "development"),
		APIKey:                  GetEnv("API_KEY", ""),
		OpenSearchURL:           GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
		OpenSearchUser:          GetEnv("OPENSEARCH_USER", ""),
		OpenSearchPass:          GetEnv("OPENSEARCH_PASSWORD", ""),
		OpenSearchIndexPrefix:   GetEnv("OPENSEARCH_INDEX_PREFIX", "gosquare"),
		EnableLogging:           GetBoolEnv("ENABLE_OPENSEARCH_LOGGING", false),
		LoggingLevel:            GetEnv("LOGGING_LEVEL", "info"),
		LogFormat:               GetEnv("LOG_FORMAT", "console"),
		TranscriptsEnabled:      GetBoolEnv("TRANSCRIPTS_ENABLED", false),
		TranscriptDBPath:        GetEnv("TRANSCRIPT_DB_PATH", "data/transcripts.db"),
		TranscriptRetentionDays: GetIntEnv("TRANSCRIPT_RETENTION_DAYS", 30),
		RateLimitPerMinute:      GetIntEnv("RATE_LIMIT_PER_MINUTE", 100),
		AllowedIPs:              GetListEnv("ALLOWED_IPS"),
		TrustedProxies:          GetListEnv("TRUSTED_PROXIES"),
	}
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetListEnv splits a comma separated environment variable, dropping empty items
func GetListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
