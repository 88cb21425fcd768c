package config

import (
	"fmt"
	"time"

	"github.com/acs027/eshop-backend/pkg/config"
	"github.com/acs027/eshop-backend/pkg/database"
	"github.com/acs027/eshop-backend/pkg/tracing"
)

// Config holds all configuration for the storefront backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Postgres (catalog + cart ledger)
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"eshop"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"eshop"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"eshop"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// MongoDB (reviews)
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"eshop"`

	// Redis (catalog cache)
	RedisHost       string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Upstream catalog feed. Empty disables feed sync.
	FeedURL string `env:"CATALOG_FEED_URL" envDefault:""`

	// Cart identity fallback for anonymous requests.
	GuestUserID string `env:"GUEST_USER_ID" envDefault:"acs"`

	// Tracing
	TracingEnabled bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"OTEL_TRACE_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GuestUserID == "" {
		return fmt.Errorf("guest user id cannot be empty")
	}
	if c.CatalogCacheTTL <= 0 {
		return fmt.Errorf("catalog cache TTL must be positive: %s", c.CatalogCacheTTL)
	}
	if c.TraceSample < 0 || c.TraceSample > 1 {
		return fmt.Errorf("trace sample rate must be in [0, 1]: %f", c.TraceSample)
	}
	return nil
}

// Postgres returns the connection settings for the catalog and cart store.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSLMode,

		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Mongo returns the connection settings for the review store.
func (c *Config) Mongo() database.MongoConfig {
	return database.MongoConfig{
		URI:      c.MongoURI,
		Database: c.MongoDB,
	}
}

// Redis returns the connection settings for the catalog cache.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing(serviceVersion string) tracing.Config {
	return tracing.Config{
		ServiceName:    "eshop-backend",
		ServiceVersion: serviceVersion,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTLPEndpoint,
		SampleRate:     c.TraceSample,
		Enabled:        c.TracingEnabled,
	}
}
