package configs

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Shopify  ShopifyConfig
	Cart     CartConfig
	Breaker  BreakerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Mode         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	PostgresURL string
	MongoURL    string
	MongoDBName string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	SecretKey   string
	ExpiryHours int
}

type ShopifyConfig struct {
	StoreDomain     string
	StorefrontToken string
	APIVersion      string
	Timeout         time.Duration
}

// Enabled reports whether a remote storefront is configured at all.
func (s ShopifyConfig) Enabled() bool {
	return s.StoreDomain != "" && s.StorefrontToken != ""
}

type CartConfig struct {
	MaxQuantity  int
	SessionTTL   time.Duration
	StoreBackend string // redis, postgres or memory
	CatalogFile  string
	IdleTTL      time.Duration
	CronInterval time.Duration
}

type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	OpenTimeout time.Duration
	MinRequests uint32
	FailureRate float64
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Mode:         getEnv("GIN_MODE", "debug"),
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			PostgresURL: getEnv("POSTGRES_URL", ""),
			MongoURL:    getEnv("MONGO_URL", ""),
			MongoDBName: getEnv("MONGO_DB_NAME", "bgc_storefront"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_CART_TOPIC", "cart_events"),
		},
		JWT: JWTConfig{
			SecretKey:   getEnv("JWT_SECRET", "change-me"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24*30),
		},
		Shopify: ShopifyConfig{
			StoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken: getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
			APIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-01"),
			Timeout:         getEnvDuration("SHOPIFY_TIMEOUT", 5*time.Second),
		},
		Cart: CartConfig{
			MaxQuantity:  getEnvInt("CART_MAX_QUANTITY", 10000),
			SessionTTL:   getEnvDuration("CART_SESSION_TTL", 30*24*time.Hour),
			StoreBackend: getEnv("STORE_BACKEND", "redis"),
			CatalogFile:  getEnv("CATALOG_FILE", ""),
			IdleTTL:      getEnvDuration("CART_IDLE_TTL", 30*time.Minute),
			CronInterval: getEnvDuration("CART_CRON_INTERVAL", time.Minute),
		},
		Breaker: BreakerConfig{
			MaxRequests: uint32(getEnvInt("BREAKER_MAX_REQUESTS", 3)),
			Interval:    getEnvDuration("BREAKER_INTERVAL", 30*time.Second),
			OpenTimeout: getEnvDuration("BREAKER_OPEN_TIMEOUT", 20*time.Second),
			MinRequests: uint32(getEnvInt("BREAKER_MIN_REQUESTS", 5)),
			FailureRate: getEnvFloat("BREAKER_FAILURE_RATE", 0.5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
