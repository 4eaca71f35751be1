package config

import (
	"testing"
	"time"

	"github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, "adoptlyDB", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "adoption.events", cfg.Kafka.Topic)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, request.ReacceptSkip, cfg.ReacceptPolicy)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REACCEPT_POLICY", "allow")
	t.Setenv("MONGO_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, request.ReacceptAllow, cfg.ReacceptPolicy)
	assert.Equal(t, 3*time.Second, cfg.Mongo.Timeout)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"driver", "STORAGE_DRIVER", "postgres"},
		{"policy", "REACCEPT_POLICY", "sometimes"},
		{"timeout", "MONGO_TIMEOUT", "soon"},
		{"ttl", "IDEMPOTENCY_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
