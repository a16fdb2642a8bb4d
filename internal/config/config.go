package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds the whole application configuration, populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Queue    QueueConfig
	SMTP     SMTPConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Name            string        `env:"APP_NAME" envDefault:"Charmi API"`
	Environment     string        `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port            string        `env:"APP_PORT" envDefault:"8080"`
	Version         string        `env:"APP_VERSION" envDefault:"1.0.0"`
	ReadTimeout     time.Duration `env:"APP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"APP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AutoMigrate     bool          `env:"APP_AUTO_MIGRATE" envDefault:"false"`
}

type DatabaseConfig struct {
	Host              string        `env:"DB_HOST" envDefault:"localhost"`
	Port              int           `env:"DB_PORT" envDefault:"5432"`
	User              string        `env:"DB_USER" envDefault:"charmi"`
	Password          string        `env:"DB_PASSWORD" envDefault:""`
	Name              string        `env:"DB_NAME" envDefault:"charmi_dev"`
	SSLMode           string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns          int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"DB_MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"DB_RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret            string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	AccessTokenExpiry time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"24h"`
}

type QueueConfig struct {
	RedisAddr   string `env:"QUEUE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB     int    `env:"QUEUE_REDIS_DB" envDefault:"1"`
	Concurrency int    `env:"QUEUE_CONCURRENCY" envDefault:"10"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Port     int    `env:"SMTP_PORT" envDefault:"1025"`
	Username string `env:"SMTP_USERNAME" envDefault:""`
	Password string `env:"SMTP_PASSWORD" envDefault:""`
	From     string `env:"SMTP_FROM" envDefault:"orders@charmi.local"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"Charmi"`
}

type CacheConfig struct {
	LocationTTL time.Duration `env:"CACHE_LOCATION_TTL" envDefault:"24h"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that must not fall back to defaults.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
