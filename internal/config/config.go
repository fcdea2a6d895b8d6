package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Restaurant policies accepted by ORDER_RESTAURANT_POLICY.
const (
	PolicyLineItems    = "line_items"
	PolicySingleTenant = "single_tenant"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Kafka    KafkaConfig
	Promo    PromoConfig
	Order    OrderConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host               string
	Port               int
	PublicBaseURL      string
	CORSAllowedOrigins []string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// StorageConfig selects where collection snapshots are kept.
type StorageConfig struct {
	Backend   string
	Dir       string
	MirrorDir string // optional local mirror used as fallback for remote backends
}

// DatabaseConfig holds PostgreSQL configuration, used by the postgres backend.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds Redis configuration, used by the redis backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// S3Config holds the bucket shared by the s3 backend and the promo S3 loader.
type S3Config struct {
	Bucket string
	Region string
	Prefix string
}

// KafkaConfig holds order event publishing configuration.
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	OrderTopic string
}

// PromoConfig holds promo code file configuration.
type PromoConfig struct {
	Enabled   bool
	Files     []string
	S3Enabled bool
	S3Prefix  string
}

// OrderConfig holds checkout configuration.
type OrderConfig struct {
	RestaurantPolicy    string
	DefaultRestaurantID int64
}

// SessionConfig holds login session configuration.
type SessionConfig struct {
	TTLMinutes int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", BackendFile),
			Dir:       getEnv("STORAGE_DIR", "data"),
			MirrorDir: getEnv("STORAGE_MIRROR_DIR", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "restaurante"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "restaurante:"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "restaurante/"),
		},
		Kafka: KafkaConfig{
			Enabled:    getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:    getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "restaurante.orders"),
		},
		Promo: PromoConfig{
			Enabled:   getEnvAsBool("PROMO_ENABLED", false),
			Files:     getEnvAsList("PROMO_FILES", nil),
			S3Enabled: getEnvAsBool("PROMO_S3_ENABLED", false),
			S3Prefix:  getEnv("PROMO_S3_PREFIX", "promos/"),
		},
		Order: OrderConfig{
			RestaurantPolicy:    getEnv("ORDER_RESTAURANT_POLICY", PolicyLineItems),
			DefaultRestaurantID: int64(getEnvAsInt("ORDER_DEFAULT_RESTAURANT_ID", 0)),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 720),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendS3:
		if err := c.S3.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be memory, file, redis, postgres, or s3)", c.Storage.Backend)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("at least one kafka broker is required when kafka is enabled")
		}
		if c.Kafka.OrderTopic == "" {
			return fmt.Errorf("kafka order topic is required when kafka is enabled")
		}
	}

	if c.Promo.Enabled {
		if len(c.Promo.Files) == 0 {
			return fmt.Errorf("promo files are required when promos are enabled")
		}
		if c.Promo.S3Enabled {
			if err := c.S3.validate(); err != nil {
				return err
			}
		}
	}

	switch c.Order.RestaurantPolicy {
	case PolicyLineItems:
	case PolicySingleTenant:
		if c.Order.DefaultRestaurantID <= 0 {
			return fmt.Errorf("default restaurant id is required for the single_tenant policy")
		}
	default:
		return fmt.Errorf("invalid order restaurant policy: %s (must be line_items or single_tenant)", c.Order.RestaurantPolicy)
	}

	if c.Session.TTLMinutes < 1 {
		return fmt.Errorf("session ttl must be at least 1 minute")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 0 {
		return fmt.Errorf("database min connections cannot be negative")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

func (c *S3Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("S3 bucket is required")
	}
	if c.Region == "" {
		return fmt.Errorf("S3 region is required")
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TTL returns the session lifetime.
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
