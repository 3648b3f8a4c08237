package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment     string        `validate:"required,oneof=development staging production test"`
	Port            string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	Log             LogConfig
	Bridge          BridgeConfig
	RateLimit       RateLimitConfig
	Lambda          LambdaConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=text json"`
}

// BridgeConfig holds the request-construction defaults and where the bridged
// application is mounted on the HTTP server
type BridgeConfig struct {
	DefaultScheme string `validate:"required,oneof=http https"`
	DefaultHost   string `validate:"required"`
	MountPath     string `validate:"required,startswith=/"`
}

// RateLimitConfig holds rate limiting configuration. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

// LambdaConfig holds configuration for the Lambda entrypoint
type LambdaConfig struct {
	// PayloadVersion selects the API Gateway event format: REST APIs send
	// 1.0, HTTP APIs default to 2.0.
	PayloadVersion string `validate:"required,oneof=1.0 2.0"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("BRIDGE_DEFAULT_SCHEME", "https")
	viper.SetDefault("BRIDGE_DEFAULT_HOST", "localhost")
	viper.SetDefault("BRIDGE_MOUNT_PATH", "/app")
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)
	viper.SetDefault("LAMBDA_PAYLOAD_VERSION", "1.0")

	config := &Config{
		Environment:     viper.GetString("ENVIRONMENT"),
		Port:            viper.GetString("PORT"),
		ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Bridge: BridgeConfig{
			DefaultScheme: viper.GetString("BRIDGE_DEFAULT_SCHEME"),
			DefaultHost:   viper.GetString("BRIDGE_DEFAULT_HOST"),
			MountPath:     viper.GetString("BRIDGE_MOUNT_PATH"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Lambda: LambdaConfig{
			PayloadVersion: viper.GetString("LAMBDA_PAYLOAD_VERSION"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
