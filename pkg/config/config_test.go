package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", cfg.App.Timezone)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.True(t, cfg.DB.SchemaAutoCreate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "750")
	t.Setenv("SCHEMA_AUTO_CREATE", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("AVAILABILITY_CACHE_TTL_SECONDS", "20")
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.False(t, cfg.DB.SchemaAutoCreate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 20*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestLoad_ProductionSinSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{User: "app", Password: "p@ss:word", Host: "db", Port: 5432, DBName: "restaurante", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/restaurante?sslmode=disable", c.DSN())
}
