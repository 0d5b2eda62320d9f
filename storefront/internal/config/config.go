package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_storefront/storefront/internal/orders"
	"github.com/fjod/go_storefront/storefront/internal/search"
)

const (
	StateDriverSQLite = "sqlite"
	StateDriverMongo  = "mongo"
	StateDriverMemory = "memory"
)

type Config struct {
	LogLevel string

	CatalogAPIURL  string
	CheckoutAPIURL string
	AuthURL        string
	AuthAPIKey     string
	RequestTimeout time.Duration

	// Remote order store. An empty DBHost selects the in-memory repository.
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	StateDriver         string
	StateDBPath         string
	StateMigrationsPath string
	MongoURI            string
	MongoDBName         string
	RedisAddr           string
	CatalogCacheTTL     time.Duration
	KafkaBrokers        []string
	SearchDebounce      time.Duration
	MerchantDisplayName string
	ReturnURL           string
}

func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CatalogAPIURL:       getEnv("CATALOG_API_URL", "https://fakestoreapi.com"),
		CheckoutAPIURL:      getEnv("CHECKOUT_API_URL", "http://localhost:3000"),
		AuthURL:             getEnv("AUTH_URL", "http://localhost:9999"),
		AuthAPIKey:          os.Getenv("AUTH_API_KEY"),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 15*time.Second),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              getInt("DB_PORT", 5432),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "storefront"),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "storefront/internal/repository/migrations"),
		StateDriver:         getEnv("STATE_DRIVER", StateDriverSQLite),
		StateDBPath:         getEnv("STATE_DB_PATH", "storefront-state.db"),
		StateMigrationsPath: getEnv("STATE_MIGRATIONS_PATH", "storefront/internal/storage/migrations"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:         getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL:     getDuration("CATALOG_CACHE_TTL", 15*time.Minute),
		KafkaBrokers:        getList("KAFKA_BROKERS"),
		SearchDebounce:      getDuration("SEARCH_DEBOUNCE", search.DefaultDelay),
		MerchantDisplayName: getEnv("MERCHANT_DISPLAY_NAME", orders.DefaultMerchantDisplayName),
		ReturnURL:           getEnv("RETURN_URL", "storefront://orders"),
	}

	switch cfg.StateDriver {
	case StateDriverSQLite, StateDriverMongo, StateDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STATE_DRIVER %q", cfg.StateDriver)
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

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
