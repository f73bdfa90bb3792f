package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "user:pw@tcp(localhost:3306)/chat")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_EnvOnlyWithDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INTERNAL_API_KEY", "  widget-key \n")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "widget-key", cfg.Auth.InternalAPIKey)
	// 未单独配置时沿用内部密钥
	assert.Equal(t, "widget-key", cfg.Auth.ServiceAPIKey)
	assert.Empty(t, cfg.Auth.AdminToken)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, cfg.LLM.Model, cfg.LLM.ClassifierModel)
	assert.Equal(t, 3, cfg.Forwarding.MaxAttempts)
	assert.Equal(t, 30*24*time.Hour, cfg.Cleanup.Retention())
}

func TestLoad_YAMLAndOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVICE_API_KEY", "svc")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
llm:
  model: gpt-4.1-mini
  classifier_model: gpt-4.1-nano
forwarding:
  workers: 4
  retry_backoff: 500ms
cleanup:
  retention_days: 7
  interval: 1h
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "svc", cfg.Auth.ServiceAPIKey)
	assert.Equal(t, "gpt-4.1-nano", cfg.LLM.ClassifierModel)
	assert.Equal(t, 4, cfg.Forwarding.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Forwarding.RetryBackoff)
	assert.Equal(t, 7*24*time.Hour, cfg.Cleanup.Retention())
	assert.Equal(t, time.Hour, cfg.Cleanup.Interval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.mysql.dsn")
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "database.redis.addr")
}

func TestLoad_MissingSecretsAreNotFatal(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.CronSecret)
}
