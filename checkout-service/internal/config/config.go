package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort           string
	GRPCPort           string
	LogLevel           string
	Processor          string
	StripeSecretKey    string
	StripeAPIVersion   string
	Currency           string
	ProcessorTimeout   time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

const (
	ProcessorStripe = "stripe"
	ProcessorFake   = "fake"
)

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "3000"),
		GRPCPort:           getEnv("GRPC_PORT", "50060"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Processor:          getEnv("PROCESSOR", ProcessorStripe),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		StripeAPIVersion:   getEnv("STRIPE_API_VERSION", "2025-12-15.clover"),
		Currency:           getEnv("CURRENCY", "usd"),
		ProcessorTimeout:   getDuration("PROCESSOR_TIMEOUT", 20*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: getInt64("MAX_REQUEST_BODY_SIZE", 1<<20), // 1MB
	}

	switch cfg.Processor {
	case ProcessorStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required when PROCESSOR=%s", ProcessorStripe)
		}
	case ProcessorFake:
	default:
		return nil, fmt.Errorf("unknown PROCESSOR %q", cfg.Processor)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
