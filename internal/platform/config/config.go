package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StorageDriver  string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string

	// Optional; when set, per-account locks are shared across processes through redsync
	RedisURL string

	DefaultBaseCurrency      string
	EntryNumberMaxRetries    uint64
	EntryNumberRetryInterval time.Duration
	RebuildConcurrency       int

	RateLimit          string // ulule formatted, e.g. "100-M"
	CORSAllowedOrigins []string

	TracingEnabled       bool
	OTLPEndpoint         string
	OTLPInsecure         bool
	TracingSamplingRatio float64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "ledger-engine")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	v.SetDefault("ENTRY_NUMBER_MAX_RETRIES", 5)
	v.SetDefault("ENTRY_NUMBER_RETRY_INTERVAL", "10ms")
	v.SetDefault("REBUILD_CONCURRENCY", 4)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("TRACING_SAMPLING_RATIO", 1.0)

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		RedisURL:            v.GetString("REDIS_URL"),
		DefaultBaseCurrency: strings.ToUpper(v.GetString("DEFAULT_BASE_CURRENCY")),
		RebuildConcurrency:  v.GetInt("REBUILD_CONCURRENCY"),
		RateLimit:           v.GetString("RATE_LIMIT"),

		TracingEnabled:       v.GetBool("TRACING_ENABLED"),
		OTLPEndpoint:         v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:         v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		TracingSamplingRatio: v.GetFloat64("TRACING_SAMPLING_RATIO"),
	}

	retries := v.GetInt("ENTRY_NUMBER_MAX_RETRIES")
	if retries < 0 {
		return nil, fmt.Errorf("ENTRY_NUMBER_MAX_RETRIES must not be negative, got %d", retries)
	}
	cfg.EntryNumberMaxRetries = uint64(retries)

	intervalStr := v.GetString("ENTRY_NUMBER_RETRY_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		interval = 10 * time.Millisecond
		log.Printf("Warning: Invalid value for ENTRY_NUMBER_RETRY_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.EntryNumberRetryInterval = interval

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", DriverPostgres)
		}
	case DriverMemory:
		log.Println("Warning: STORAGE_DRIVER is memory. Ledger data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "development-only-insecure-jwt-secret"
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.TracingSamplingRatio < 0 || cfg.TracingSamplingRatio > 1 {
		return nil, fmt.Errorf("TRACING_SAMPLING_RATIO must be between 0 and 1, got %v", cfg.TracingSamplingRatio)
	}
	if cfg.TracingEnabled && cfg.OTLPEndpoint == "" {
		return nil, fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when TRACING_ENABLED is true")
	}

	if cfg.RebuildConcurrency <= 0 {
		cfg.RebuildConcurrency = 1
	}

	return cfg, nil
}
