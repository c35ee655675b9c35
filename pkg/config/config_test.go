package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "DATABASE_URL", "DB_PATH", "SERVER_PORT", "OUTBOX_RELAY_INTERVAL", "OUTBOX_RELAY_BATCH", "BILLING_REQUIRE_CUSTOMER", "REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_SALES_TOPIC")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load("pos-service")
	require.NoError(t, err)

	assert.Equal(t, "pos-service", cfg.ServiceName)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "crm.db", cfg.DB.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Billing.RequireCustomer)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "pos.sales", cfg.Kafka.SalesTopic)
	assert.Equal(t, time.Second, cfg.Kafka.RelayInterval)
	assert.Equal(t, 100, cfg.Kafka.RelayBatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("BILLING_REQUIRE_CUSTOMER", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL", "10m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("OUTBOX_RELAY_INTERVAL", "250ms")

	cfg, err := Load("pos-service")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 7, cfg.DB.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.False(t, cfg.Billing.RequireCustomer)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 10*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.Kafka.RelayInterval)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load("pos-service")
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"sqlite without path", map[string]string{"DB_DRIVER": "sqlite", "DB_PATH": ""}},
		{"non-positive ttl", map[string]string{"DB_DRIVER": "memory", "REDIS_ADDR": "r:6379", "IDEMPOTENCY_TTL": "0s"}},
		{"brokers without topic", map[string]string{"DB_DRIVER": "memory", "KAFKA_BROKERS": "k:9092", "KAFKA_SALES_TOPIC": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "REDIS_ADDR", "KAFKA_BROKERS")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("pos-service")
			assert.Error(t, err)
		})
	}
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=pos sslmode=disable", c.GetDSN())

	c.URL = "postgres://u:p@db:5433/pos"
	assert.Equal(t, "postgres://u:p@db:5433/pos", c.GetDSN())

	c = DBConfig{Driver: DriverSQLite, Path: "/tmp/pos.db"}
	assert.Equal(t, "/tmp/pos.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.GetDSN())

	c = DBConfig{Driver: DriverMemory}
	assert.Empty(t, c.GetDSN())
}
