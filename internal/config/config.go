package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// MongoConfig holds the document store settings.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// KafkaConfig holds the event bus settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RedisConfig holds the idempotency store settings. An empty URL disables it.
type RedisConfig struct {
	URL            string
	IdempotencyTTL time.Duration
}

// ServiceConfig holds all configuration for the adoption service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	StorageDriver  string
	Mongo          MongoConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	ReacceptPolicy request.ReacceptPolicy
}

// Load reads configuration from the environment, after applying a .env file
// in the working directory if one exists.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("STORAGE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "adoptlyDB")
	v.SetDefault("MONGO_TIMEOUT", "10s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "adoption.events")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("REACCEPT_POLICY", string(request.ReacceptSkip))

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER")))
	if driver != DriverMongo && driver != DriverMemory {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %s or %s", driver, DriverMongo, DriverMemory)
	}

	policy, err := request.ParseReacceptPolicy(v.GetString("REACCEPT_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid REACCEPT_POLICY: %w", err)
	}

	mongoTimeout, err := time.ParseDuration(v.GetString("MONGO_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGO_TIMEOUT: %w", err)
	}
	idemTTL, err := time.ParseDuration(v.GetString("IDEMPOTENCY_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	return &ServiceConfig{
		Port:          servicePort(v.GetString("PORT")),
		AppEnv:        v.GetString("APP_ENV"),
		StorageDriver: driver,
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  mongoTimeout,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Redis: RedisConfig{
			URL:            v.GetString("REDIS_URL"),
			IdempotencyTTL: idemTTL,
		},
		ReacceptPolicy: policy,
	}, nil
}

func servicePort(port string) string {
	port = strings.TrimSpace(port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
