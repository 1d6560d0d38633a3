package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	AI        AIConfig
	Worker    WorkerConfig
	Retention RetentionConfig
	Upload    UploadConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// AIConfig holds OpenAI extraction configuration
type AIConfig struct {
	Enabled         bool
	APIKey          string
	BaseURL         string
	Model           string
	SchemaVersion   string
	MaxTextChars    int
	MaxOutputTokens int
	Timeout         time.Duration
	ReasoningEffort string
}

// WorkerConfig holds processing queue configuration
type WorkerConfig struct {
	QueueSize int
	Workers   int
}

// RetentionConfig holds retention cleanup configuration
type RetentionConfig struct {
	Days     int
	Interval time.Duration
}

// UploadConfig holds file upload configuration
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		AI: AIConfig{
			Enabled:         getEnvAsBool("AI_EXTRACTION_ENABLED", true),
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:           getEnv("OPENAI_MODEL", "gpt-5-mini"),
			SchemaVersion:   getEnv("AI_EXTRACTION_SCHEMA_VERSION", "2026-02-02.v1"),
			MaxTextChars:    getEnvAsInt("AI_EXTRACTION_MAX_TEXT_CHARS", 24000),
			MaxOutputTokens: getEnvAsInt("AI_EXTRACTION_MAX_OUTPUT_TOKENS", 1200),
			Timeout:         getEnvAsDuration("AI_EXTRACTION_TIMEOUT", 60*time.Second),
			ReasoningEffort: getEnv("OPENAI_REASONING_EFFORT", "low"),
		},
		Worker: WorkerConfig{
			QueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", 64),
			Workers:   getEnvAsInt("WORKER_COUNT", 2),
		},
		Retention: RetentionConfig{
			Days:     getEnvAsInt("RETENTION_DAYS", 30),
			Interval: getEnvAsDuration("RETENTION_INTERVAL", 6*time.Hour),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "./uploads"),
			MaxSizeBytes: int64(getEnvAsInt("UPLOAD_MAX_SIZE_MB", 25)) * 1024 * 1024,
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when AI extraction is enabled", ErrInvalidInput)
	}
	return nil
}
