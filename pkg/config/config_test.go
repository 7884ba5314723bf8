package config_test

import (
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Valores por defecto
// ─────────────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	// Variables vacías cuentan como no definidas para Viper
	for _, k := range []string{"STORAGE_DRIVER", "HTTP_HOST", "HTTP_PORT", "DB_MAX_CONNS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REDIS_ADDR", "INVENTORY_REJECT_SELF_TRANSFER"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Inventory.RejectSelfTransfer)
	assert.True(t, cfg.RateLimit.Enabled())
}

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "60")
	t.Setenv("INVENTORY_REJECT_SELF_TRANSFER", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.InDelta(t, 5.5, cfg.RateLimit.RPS, 0.0001)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Inventory.RejectSelfTransfer)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoad_RedisDisabledWithoutAddr(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.Redis.Enabled())
}

// ─────────────────────────────────────────────────────────────────────────────
// DSN
// ─────────────────────────────────────────────────────────────────────────────

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ledger", SSLMode: "disable"}
	dsn := c.DSN()
	assert.Contains(t, dsn, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ledger")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Equal(t, dsn, c.ConnectionString())
}

func TestDBConfig_DatabaseURLWins(t *testing.T) {
	c := config.DBConfig{DatabaseURL: "postgres://x@y/z", Host: "db"}
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
