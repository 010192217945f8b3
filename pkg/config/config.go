package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Extraction ExtractionConfig
	NLP        NLPConfig
	Gemini     GeminiConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	RateLimitRPS    float64  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	BodyLimit       string   `envconfig:"BODY_LIMIT" default:"1M"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// ExtractionConfig holds task extraction settings
type ExtractionConfig struct {
	DefaultProvider string        `envconfig:"DEFAULT_PROVIDER" default:"heuristic"`
	LexiconPath     string        `envconfig:"LEXICON_PATH"`
	Timezone        string        `envconfig:"TIMEZONE" default:"America/Sao_Paulo"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	Timeout         time.Duration `envconfig:"EXTRACTION_TIMEOUT" default:"60s"`
}

// NLPConfig selects the linguistic annotation backend
type NLPConfig struct {
	Provider  string        `envconfig:"NLP_PROVIDER" default:"local"` // "local" or "remote"
	RemoteURL string        `envconfig:"NLP_REMOTE_URL"`
	Timeout   time.Duration `envconfig:"NLP_TIMEOUT" default:"10s"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey        string        `envconfig:"GEMINI_API_KEY"`
	BaseURL       string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model         string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout       time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	RatePerMinute int           `envconfig:"GEMINI_RATE_PER_MINUTE" default:"15"`
	MaxRetries    uint64        `envconfig:"GEMINI_MAX_RETRIES" default:"3"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool   `envconfig:"DB_ENABLED" default:"false"`
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"task_extractor"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"transcripts"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Extraction.DefaultProvider {
	case "heuristic", "spacy":
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when DEFAULT_PROVIDER is gemini")
		}
	default:
		return fmt.Errorf("DEFAULT_PROVIDER must be one of heuristic, spacy, gemini; got %q", c.Extraction.DefaultProvider)
	}

	switch c.NLP.Provider {
	case "local":
	case "remote":
		if c.NLP.RemoteURL == "" {
			return fmt.Errorf("NLP_REMOTE_URL is required when NLP_PROVIDER is remote")
		}
	default:
		return fmt.Errorf("NLP_PROVIDER must be local or remote; got %q", c.NLP.Provider)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Extraction.Timezone, err)
	}
	if c.Gemini.RatePerMinute < 0 {
		return fmt.Errorf("GEMINI_RATE_PER_MINUTE must not be negative")
	}
	return nil
}

// Location returns the time zone deadlines are resolved in
func (c *Config) Location() (*time.Location, error) {
	if c.Extraction.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Extraction.Timezone)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
