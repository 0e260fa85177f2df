package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "lexportal", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 2, cfg.Assistant.DailyMessageLimit)
	assert.Equal(t, 5, cfg.Assistant.SearchPageSize)
	assert.Equal(t, 10, cfg.Search.DefaultPageSize)
	assert.Equal(t, 50, cfg.Search.MaxPageSize)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, "document.counter.event", cfg.RabbitMQ.CounterEventQueue)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "lexportal", cfg.App.Name)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9090

[redis]
pool_size = 8

[assistant]
daily_message_limit = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 8, cfg.Redis.PoolSize)
	assert.Equal(t, 4, cfg.Assistant.DailyMessageLimit)
	// Untouched sections keep their defaults.
	assert.Equal(t, 50, cfg.Search.MaxPageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("APP_PORT", "7070")
	t.Setenv("REDIS_POOL_SIZE", "4")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestPostgresDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.Postgres.Host = "db.internal"
	cfg.Postgres.Password = "pw"

	assert.Equal(t,
		"host=db.internal port=5432 user=postgres password=pw dbname=lexportal sslmode=disable",
		cfg.PostgresDSN())
}

func TestHTTPAddr(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}
