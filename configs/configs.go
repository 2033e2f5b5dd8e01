// Package configs provides application configuration loaded from
// environment variables. All configuration is externalized so deployments
// differ only in environment.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// DBDSN is the ClickHouse connection string.
	DBDSN string

	// Feed contains disclosure feed poll settings.
	Feed FeedConfig

	// Rates contains external quote source settings.
	Rates RatesConfig

	// Kafka contains downstream publish settings. An empty broker disables
	// publishing.
	Kafka KafkaConfig
}

// FeedConfig holds disclosure feed settings.
type FeedConfig struct {
	// URL is the RSS slice feed endpoint. Empty selects the built-in
	// default.
	URL string

	// FetchTimeout bounds one feed download.
	FetchTimeout time.Duration

	// PollInterval is the idle time between cycles.
	PollInterval time.Duration
}

// RatesConfig holds quote source settings.
type RatesConfig struct {
	// URL is the CSV quote endpoint. Empty selects the built-in default.
	URL string

	// TTL is the staleness window for cached rates.
	TTL time.Duration

	// RequestsPerSecond limits quote fetches.
	RequestsPerSecond float64
}

// KafkaConfig holds Kafka connection settings for the trade topic.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic for newly ingested trades.
	Topic string
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "user")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "password")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "dtcc_trades")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBDSN:    getDatabaseDSN(),
		Feed: FeedConfig{
			URL:          getEnv("FEED_URL", ""),
			FetchTimeout: getEnvDuration("FEED_FETCH_TIMEOUT", 30*time.Second),
			PollInterval: getEnvDuration("FEED_POLL_INTERVAL", 30*time.Second),
		},
		Rates: RatesConfig{
			URL:               getEnv("RATES_URL", ""),
			TTL:               getEnvDuration("RATES_TTL", 15*time.Minute),
			RequestsPerSecond: getEnvFloat("RATES_REQUESTS_PER_SECOND", 2),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TRADE_TOPIC", "dtcc_trades"),
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration returns the environment variable as a duration
// (e.g., "30s", "15m") or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
