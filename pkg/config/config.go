package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// Supported store backends
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the application configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	// Table configuration
	TableName    string `toml:"table_name"`
	PartitionKey string `toml:"partition_key"`
	SortKey      string `toml:"sort_key"`

	// CORS
	AllowedOrigins string `toml:"allowed_origins"`

	// Store backend selection
	StoreBackend     string `toml:"store_backend"`
	DynamoDBRegion   string `toml:"dynamodb_region"`
	DynamoDBEndpoint string `toml:"dynamodb_endpoint"`
	SQLitePath       string `toml:"sqlite_path"`
	RedisURL         string `toml:"redis_url"`
	PostgresDSN      string `toml:"postgres_dsn"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Local server
	ListenAddr string `toml:"listen_addr"`

	// Discord notifications
	DiscordWebhookURL string `toml:"discord_webhook_url"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		TableName:      "trading_log",
		PartitionKey:   types.DefaultKeySchema.PartitionKey,
		SortKey:        types.DefaultKeySchema.SortKey,
		AllowedOrigins: "*",
		StoreBackend:   BackendDynamoDB,
		DynamoDBRegion: "us-east-1",
		SQLitePath:     "data/tradelog.db",
		RedisURL:       "redis://localhost:6379/0",
		LogLevel:       "info",
		LogFormat:      "json",
		ListenAddr:     ":8080",
	}
}

// Keys returns the configured key attribute names
func (c *Config) Keys() types.KeySchema {
	return types.KeySchema{PartitionKey: c.PartitionKey, SortKey: c.SortKey}
}

// Load builds the configuration from defaults, an optional TOML file, a .env file
// and the process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		path = os.Getenv("TRADELOG_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// .env is optional and never overrides variables already set
	_ = godotenv.Load()

	LoadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromEnv overrides fields with any environment variables that are set
func LoadFromEnv(config *Config) {
	// Table configuration
	config.TableName = getEnvOrDefault("TABLE_NAME", config.TableName)
	config.PartitionKey = getEnvOrDefault("PARTITION_KEY", config.PartitionKey)
	config.SortKey = getEnvOrDefault("SORT_KEY", config.SortKey)
	config.AllowedOrigins = getEnvOrDefault("ALLOWED_ORIGINS", config.AllowedOrigins)

	// Store configuration
	config.StoreBackend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", config.StoreBackend))
	config.DynamoDBRegion = getEnvOrDefault("DYNAMODB_REGION", config.DynamoDBRegion)
	config.DynamoDBEndpoint = getEnvOrDefault("DYNAMODB_ENDPOINT", config.DynamoDBEndpoint)
	config.SQLitePath = getEnvOrDefault("SQLITE_PATH", config.SQLitePath)
	config.RedisURL = getEnvOrDefault("REDIS_URL", config.RedisURL)
	config.PostgresDSN = getEnvOrDefault("POSTGRES_DSN", config.PostgresDSN)

	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnvOrDefault("LOG_FORMAT", config.LogFormat)
	config.ListenAddr = getEnvOrDefault("LISTEN_ADDR", config.ListenAddr)

	config.DiscordWebhookURL = getEnvOrDefault("DISCORD_WEBHOOK_URL", config.DiscordWebhookURL)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.TableName == "" {
		return errors.New("table name must not be empty")
	}
	if c.PartitionKey == "" || c.SortKey == "" {
		return errors.New("partition and sort key names must not be empty")
	}
	if c.PartitionKey == c.SortKey {
		return fmt.Errorf("partition and sort key names must differ, both are %q", c.PartitionKey)
	}
	for _, name := range []string{c.PartitionKey, c.SortKey} {
		if slices.Contains(types.AttributeNames, name) {
			return fmt.Errorf("key name %q collides with a trade attribute", name)
		}
	}

	switch c.StoreBackend {
	case BackendDynamoDB, BackendSQLite, BackendRedis, BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.LogFormat)
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
