package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DATABASE"`
	Reddit   RedditConfig   `envconfig:"REDDIT"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
	Metrics  MetricsConfig  `envconfig:"METRICS"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// ServerConfig represents HTTP server parameters
type ServerConfig struct {
	Port        int `envconfig:"SERVER_PORT" default:"8080"`
	MaxPageSize int `envconfig:"SERVER_MAX_PAGE_SIZE" default:"500"`
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	Name           string `envconfig:"DB_NAME" default:"finpulse"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

// GetDSN builds the postgres connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedditConfig represents the reddit ingestion source
type RedditConfig struct {
	Enabled       bool          `envconfig:"REDDIT_ENABLED" default:"true"`
	Subreddits    []string      `envconfig:"REDDIT_SUBREDDITS" default:"stocks,investing,wallstreetbets,finance"`
	UserAgent     string        `envconfig:"REDDIT_USER_AGENT" default:"finpulse/0.1"`
	FetchLimit    int           `envconfig:"REDDIT_FETCH_LIMIT" default:"25"`
	FetchInterval time.Duration `envconfig:"REDDIT_FETCH_INTERVAL" default:"15m"`
}

// TelegramConfig represents the market pulse digest notifier
type TelegramConfig struct {
	Enabled        bool          `envconfig:"TELEGRAM_ENABLED" default:"false"`
	BotToken       string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID         int64         `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
	DigestInterval time.Duration `envconfig:"TELEGRAM_DIGEST_INTERVAL" default:"24h"`
}

// MetricsConfig represents the optional ClickHouse telemetry sink
type MetricsConfig struct {
	Enabled       bool          `envconfig:"METRICS_ENABLED" default:"false"`
	ClickHouseDSN string        `envconfig:"METRICS_CLICKHOUSE_DSN" default:"clickhouse://localhost:9000/finpulse"`
	BatchSize     int           `envconfig:"METRICS_BATCH_SIZE" default:"50"`
	FlushInterval time.Duration `envconfig:"METRICS_FLUSH_INTERVAL" default:"30s"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables.
// A local .env file is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.MaxPageSize <= 0 {
		return fmt.Errorf("max page size must be positive")
	}

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram digest enabled but bot token is missing")
	}

	if c.Telegram.Enabled && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram digest enabled but chat id is missing")
	}

	if c.Metrics.Enabled && c.Metrics.ClickHouseDSN == "" {
		return fmt.Errorf("metrics enabled but clickhouse dsn is missing")
	}

	return nil
}
