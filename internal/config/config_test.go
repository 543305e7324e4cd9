package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "erp-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "enforce", cfg.Authz.Mode)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 21, cfg.Leave.DefaultAnnualDays)
	assert.Equal(t, 10, cfg.Leave.DefaultSickDays)
	assert.Equal(t, time.Minute, cfg.Dashboard.CacheTTL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("AUTHZ_MODE", "SHADOW")
	t.Setenv("LEAVE_DEFAULT_ANNUAL_DAYS", "25")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "shadow", cfg.Authz.Mode)
	assert.Equal(t, 25, cfg.Leave.DefaultAnnualDays)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("invalid redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "x")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("dev secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("AUTH_JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("unknown authz mode", func(t *testing.T) {
		t.Setenv("AUTHZ_MODE", "permissive")
		_, err := Load()
		assert.Error(t, err)
	})
}
