package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "MindPulse API", cfg.App.Name)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.Origins)
	assert.False(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Auth.SecureCookies, "debug builds use plain cookies")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MINDPULSE_HTTP_PORT", "9090")
	t.Setenv("MINDPULSE_STORE_DRIVER", "sqlite")
	t.Setenv("MINDPULSE_APP_DEBUG", "false")
	t.Setenv("MINDPULSE_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("MINDPULSE_AUTH_ACCESS_TTL", "30m")
	t.Setenv("MINDPULSE_REDIS_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindpulse.yaml")
	content := []byte(`
store:
  driver: sqlite
  sqlite_path: /tmp/mp.db
analysis:
  workers: 2
log:
  format: json
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mp.db", cfg.Store.SQLitePath)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Store.Driver = "postgres"
	bad.Auth.SecretKey = "short"
	bad.Analysis.Workers = 0

	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store.driver")
	assert.Contains(t, err.Error(), "secret_key")
	assert.Contains(t, err.Error(), "analysis.workers")
}
