package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	LLM       LLMConfig
	Assembly  AssemblyAIConfig
	Webhook   WebhookConfig
	Assistant AssistantConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	AppBaseURL      string   `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	FrontendURL     string   `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"atlas"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// AuthConfig holds magic-link configuration
type AuthConfig struct {
	MagicLinkTTL  time.Duration `envconfig:"MAGIC_LINK_TTL" default:"15m"`
	AllowedEmails []string      `envconfig:"AUTH_ALLOWED_EMAILS"`
}

// SMTPConfig holds outgoing mail configuration. An empty host logs links instead of mailing them.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"Atlas <no-reply@atlas.local>"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"atlas-documents"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
	MaxUploadBytes  int64  `envconfig:"MAX_UPLOAD_BYTES" default:"26214400"`
}

// LLMConfig holds the OpenAI-compatible chat completion endpoint
type LLMConfig struct {
	APIKey    string        `envconfig:"LLM_API_KEY"`
	BaseURL   string        `envconfig:"LLM_BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model     string        `envconfig:"LLM_MODEL" default:"llama-3.3-70b-versatile"`
	MaxTokens int           `envconfig:"LLM_MAX_TOKENS" default:"4096"`
	Timeout   time.Duration `envconfig:"LLM_TIMEOUT" default:"90s"`
}

// AssemblyAIConfig holds transcription configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// WebhookConfig holds inbound webhook configuration
type WebhookConfig struct {
	Secret    string `envconfig:"WEBHOOK_SECRET"`
	UserEmail string `envconfig:"WEBHOOK_USER_EMAIL"`
}

// AssistantConfig holds chat assistant configuration
type AssistantConfig struct {
	OwnerName       string        `envconfig:"ASSISTANT_OWNER_NAME" default:"the user"`
	ContextCacheTTL time.Duration `envconfig:"CHAT_CONTEXT_CACHE_TTL" default:"30s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	sections := []interface{}{
		&cfg.Server, &cfg.Database, &cfg.Redis, &cfg.JWT, &cfg.Auth, &cfg.SMTP,
		&cfg.Storage, &cfg.LLM, &cfg.Assembly, &cfg.Webhook, &cfg.Assistant,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
	}

	cfg.Auth.AllowedEmails = normalizeEmails(cfg.Auth.AllowedEmails)

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required")
	}
	if c.IsProduction() {
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required")
		}
		if strings.HasPrefix(c.JWT.AccessSecret, "your-") || strings.HasPrefix(c.JWT.RefreshSecret, "your-") {
			return fmt.Errorf("JWT secrets must be set in production")
		}
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required in production")
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
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

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
