package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "STORE_DRIVER", "PENDING_LOG_DRIVER",
	"POSTGRES_HOST", "POSTGRES_PORT", "REDIS_PORT", "CACHE_TTL_SECONDS",
	"SERVICE_NAME", "SERVICE_ID", "READ_RETRY_MAX", "READ_RETRY_INITIAL_MS", "NOTIFY_TIMEOUT_MS",
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
	c := Load()
	require.Equal(t, ":8082", c.HTTPAddr)
	require.Equal(t, 15*time.Second, c.ShutdownTimeout)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, DriverPostgres, c.StoreDriver)
	require.Equal(t, DriverMemory, c.PendingLogDriver)
	require.Equal(t, 5432, c.PostgresPort)
	require.Equal(t, 6379, c.RedisPort)
	require.Equal(t, 5*time.Minute, c.CacheTTL)
	require.Equal(t, "marketplace-core", c.ServiceName)
	require.Equal(t, "marketplace-core-1", c.ServiceID)
	require.Equal(t, 8082, c.ServicePort)
	require.Equal(t, 3, c.ReadRetryMax)
	require.Equal(t, 100*time.Millisecond, c.ReadRetryInitial)
	require.Equal(t, 5*time.Second, c.NotifyTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "0.0.0.0:9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("PENDING_LOG_DRIVER", "redis")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("SERVICE_NAME", "market")
	t.Setenv("SERVICE_ID", "")
	t.Setenv("READ_RETRY_MAX", "5")
	t.Setenv("READ_RETRY_INITIAL_MS", "10")
	t.Setenv("NOTIFY_TIMEOUT_MS", "750")
	c := Load()
	require.Equal(t, "0.0.0.0:9090", c.HTTPAddr)
	require.Equal(t, 9090, c.ServicePort)
	require.Equal(t, 2*time.Second, c.ShutdownTimeout)
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, DriverMemory, c.StoreDriver)
	require.Equal(t, DriverRedis, c.PendingLogDriver)
	require.Equal(t, 6543, c.PostgresPort)
	require.Equal(t, 30*time.Second, c.CacheTTL)
	require.Equal(t, "market-1", c.ServiceID)
	require.Equal(t, 5, c.ReadRetryMax)
	require.Equal(t, 10*time.Millisecond, c.ReadRetryInitial)
	require.Equal(t, 750*time.Millisecond, c.NotifyTimeout)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-port")
	t.Setenv("HTTP_ADDR", "nowhere")
	c := Load()
	require.Equal(t, 5432, c.PostgresPort)
	require.Equal(t, 8082, c.ServicePort)
}

func TestLoadFileEnvWins(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "marketplace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_driver: memory
POSTGRES_PORT: 6000
READ_RETRY_INITIAL_MS: 25
HTTP_ADDR: ":9000"
`), 0o600))
	t.Setenv("POSTGRES_PORT", "7000")

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, DriverMemory, c.StoreDriver)
	require.Equal(t, 7000, c.PostgresPort)
	require.Equal(t, 25*time.Millisecond, c.ReadRetryInitial)
	require.Equal(t, 9000, c.ServicePort)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0o600))
	_, err = LoadFile(path)
	require.Error(t, err)
}
