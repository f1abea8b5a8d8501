package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServiceConfig holds basic service information
type ServiceConfig struct {
	Name    string
	Version string
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Port string
}

// NATSConfig holds NATS connection configuration
type NATSConfig struct {
	URL string
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName string
}

// HTTPServerConfig holds HTTP server configuration
type HTTPServerConfig struct {
	Addr string
}

// DynamoDBConfig holds DynamoDB connection configuration
type DynamoDBConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AnalysisConfig holds configuration for the external analysis service
type AnalysisConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// CheckerConfig holds orchestration tuning
type CheckerConfig struct {
	ProgressInterval time.Duration
}

// AuthConfig holds the coarse admin identity check
type AuthConfig struct {
	AdminEmail string
}

// Config is the full server configuration
type Config struct {
	Service  ServiceConfig
	HTTP     HTTPServerConfig
	Metrics  MetricsConfig
	NATS     NATSConfig
	Tracing  TracingConfig
	DynamoDB DynamoDBConfig
	Analysis AnalysisConfig
	Checker  CheckerConfig
	Auth     AuthConfig
}

// Load builds the configuration from the environment. A .env file is
// loaded first when present (local development).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    GetEnv("SERVICE_NAME", "scamscope"),
			Version: GetEnv("SERVICE_VERSION", "1.0.0"),
		},
		HTTP: HTTPServerConfig{
			Addr: GetEnv("HTTP_ADDR", ":8080"),
		},
		Metrics: MetricsConfig{
			Port: GetEnv("METRICS_PORT", "9090"),
		},
		NATS: NATSConfig{
			URL: GetEnv("NATS_URL", "nats://localhost:4222"),
		},
		Tracing: TracingConfig{
			ServiceName: GetEnv("TRACING_SERVICE_NAME", "scamscope"),
		},
		DynamoDB: DynamoDBConfig{
			Region:          GetEnv("DYNAMODB_REGION", "us-east-1"),
			Endpoint:        GetEnv("DYNAMODB_ENDPOINT", "http://localhost:8000"),
			AccessKeyID:     GetEnv("DYNAMODB_ACCESS_KEY_ID", "local"),
			SecretAccessKey: GetEnv("DYNAMODB_SECRET_ACCESS_KEY", "local"),
		},
		Analysis: AnalysisConfig{
			Endpoint: GetEnv("ANALYSIS_ENDPOINT", "http://localhost:8001/analyze"),
			Timeout:  GetDurationEnv("ANALYSIS_TIMEOUT", 5*time.Minute),
		},
		Checker: CheckerConfig{
			ProgressInterval: GetDurationEnv("PROGRESS_INTERVAL", 1200*time.Millisecond),
		},
		Auth: AuthConfig{
			AdminEmail: GetEnv("ADMIN_EMAIL", ""),
		},
	}
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv gets an integer environment variable with a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetDurationEnv gets a duration environment variable with a default value
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetBoolEnv gets a boolean environment variable with a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
