package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Ingestion IngestionConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

// IngestionConfig drives the simulated message feed: how often a batch of
// generated bank messages is pushed through the pipeline, and how large.
type IngestionConfig struct {
	Enabled        bool
	Interval       time.Duration
	BatchSize      int
	WorkerCount    int
	QueueSize      int
	SuspiciousRate float64
	RunOnStartup   bool
	Seed           int64
}

type CacheConfig struct {
	MaxCostBytes int64
	NumCounters  int64
	TTL          time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	// Parse ingestion configuration
	ingestEnabled := getBoolEnv("INGEST_ENABLED", true)
	ingestInterval, err := time.ParseDuration(getEnv("INGEST_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_INTERVAL: %w", err)
	}
	ingestBatch, err := strconv.Atoi(getEnv("INGEST_BATCH_SIZE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_BATCH_SIZE: %w", err)
	}
	ingestWorkers, err := strconv.Atoi(getEnv("INGEST_WORKERS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_WORKERS: %w", err)
	}
	ingestQueueSize, err := strconv.Atoi(getEnv("INGEST_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_QUEUE_SIZE: %w", err)
	}
	suspiciousRate, err := strconv.ParseFloat(getEnv("INGEST_SUSPICIOUS_RATE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_SUSPICIOUS_RATE: %w", err)
	}
	if suspiciousRate < 0 || suspiciousRate > 1 {
		return nil, fmt.Errorf("INGEST_SUSPICIOUS_RATE must be between 0 and 1")
	}
	ingestSeed, err := strconv.ParseInt(getEnv("INGEST_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_SEED: %w", err)
	}

	cacheMaxCost, err := strconv.ParseInt(getEnv("CACHE_MAX_COST_BYTES", "33554432"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MAX_COST_BYTES: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "fintrack"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "fintrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Ingestion: IngestionConfig{
			Enabled:        ingestEnabled,
			Interval:       ingestInterval,
			BatchSize:      ingestBatch,
			WorkerCount:    ingestWorkers,
			QueueSize:      ingestQueueSize,
			SuspiciousRate: suspiciousRate,
			RunOnStartup:   getBoolEnv("INGEST_RUN_ON_STARTUP", false),
			Seed:           ingestSeed,
		},
		Cache: CacheConfig{
			MaxCostBytes: cacheMaxCost,
			NumCounters:  cacheMaxCost / 100,
			TTL:          cacheTTL,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "fintrack-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4318"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Ingestion.BatchSize <= 0 {
		return nil, fmt.Errorf("INGEST_BATCH_SIZE must be positive")
	}
	if cfg.Ingestion.WorkerCount <= 0 {
		return nil, fmt.Errorf("INGEST_WORKERS must be positive")
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
