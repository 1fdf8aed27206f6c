package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigin)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)

	assert.Contains(t, cfg.MySQL.DSN, "parseTime=true")
	assert.Contains(t, cfg.MySQL.DSN, "multiStatements=true")
	assert.Equal(t, 32, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.MySQL.PingTimeout)

	assert.Contains(t, cfg.ClickHouse.DSN, "clickhouse://")
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)

	assert.Equal(t, []string{"127.0.0.1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "campgw-auditor", cfg.Kafka.GroupID)

	assert.Equal(t, "https://graph.facebook.com/v17.0", cfg.Gateway.BaseURL)
	assert.Empty(t, cfg.Gateway.PhoneNumberID, "dev mode out of the box")
	assert.Empty(t, cfg.Gateway.AccessToken)
	assert.Equal(t, 30000, cfg.Gateway.TimeoutMs)
	assert.Equal(t, 5, cfg.Gateway.Breaker.FailThreshold)
	assert.Equal(t, 15000, cfg.Gateway.Breaker.OpenForMs)

	assert.Equal(t, 50, cfg.RateLimit.RPS)

	assert.Equal(t, 8, cfg.Auditor.WorkerCount)
	assert.Equal(t, 200, cfg.Auditor.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Auditor.BatchWait)
}

func TestLoad_FileMergeOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7070"
gateway:
  phone_number_id: "555000111222333"
  access_token: "EAAB-file-token"
auditor:
  batch_wait: 2s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "555000111222333", cfg.Gateway.PhoneNumberID)
	assert.Equal(t, "EAAB-file-token", cfg.Gateway.AccessToken)
	assert.Equal(t, 2*time.Second, cfg.Auditor.BatchWait)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 50, cfg.RateLimit.RPS)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAMPGW_HTTP_ADDR", ":9999")
	t.Setenv("CAMPGW_GATEWAY_ACCESS_TOKEN", "EAAB-env-token")
	t.Setenv("CAMPGW_RATE_LIMIT_RPS", "5")
	t.Setenv("CAMPGW_GATEWAY_BREAKER_FAIL_THRESHOLD", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "EAAB-env-token", cfg.Gateway.AccessToken)
	assert.Equal(t, 5, cfg.RateLimit.RPS)
	assert.Equal(t, 2, cfg.Gateway.Breaker.FailThreshold)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":7070\"\n"), 0o644))

	t.Setenv("CAMPGW_HTTP_ADDR", ":6666")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":6666", cfg.HTTP.Addr)
}
