package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "country-pulse-service", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, SourceFS, cfg.Snapshot.Source)
	assert.Equal(t, "./data", cfg.Snapshot.Root)
	assert.Equal(t, 3, cfg.Snapshot.Remote.Retry.MaxAttempts)
	assert.Equal(t, 0.5, cfg.Snapshot.Remote.CB.FailureRatio)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Warmup.Concurrency)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 9090
  env: staging
snapshot:
  source: http
  remote:
    base_url: https://snapshots.example.com
    timeout: 3s
cache:
  enabled: true
  ttl: 5m
warmup:
  enabled: true
  interval: 30m
`)
	t.Setenv("APP_APP_PORT", "9191")
	t.Setenv("APP_CACHE_KEY_PREFIX", "pulse-staging")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.App.Port, "env wins over file")
	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, SourceHTTP, cfg.Snapshot.Source)
	assert.Equal(t, "https://snapshots.example.com", cfg.Snapshot.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Snapshot.Remote.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "pulse-staging", cfg.Cache.KeyPrefix)
	assert.Equal(t, 30*time.Minute, cfg.Warmup.Interval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown source", body: "snapshot:\n  source: s3\n"},
		{name: "http without base url", body: "snapshot:\n  source: http\n"},
		{name: "fs without root", body: "snapshot:\n  source: fs\n  root: \"\"\n"},
		{name: "malformed base url", body: "snapshot:\n  source: http\n  remote:\n    base_url: not a url\n"},
		{name: "port out of range", body: "app:\n  port: 70000\n"},
		{name: "unknown env", body: "app:\n  env: qa\n"},
		{name: "failure ratio above one", body: "snapshot:\n  remote:\n    circuit_breaker:\n      failure_ratio: 1.5\n"},
		{name: "warm-up without interval", body: "warmup:\n  enabled: true\n  interval: 0s\n"},
		{name: "relative metrics path", body: "metrics:\n  path: metrics\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	_, err := Load(writeConfig(t, "app: [unclosed"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_TEST_DOTENV_ONLY=from-file\nAPP_TEST_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("APP_TEST_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("APP_TEST_DOTENV_ONLY") })

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("APP_TEST_DOTENV_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("APP_TEST_DOTENV_SET"), "existing variables are not overridden")

	assert.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))
}
