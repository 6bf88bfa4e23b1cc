package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "todo-service", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 336*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "snsapi_login", cfg.WeChat.Scope)
	assert.Equal(t, 10*time.Minute, cfg.WeChat.StateTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_ReadsEnvironmentFile(t *testing.T) {
	dir := writeConfig(t, "config.staging.yaml", `
server:
  port: 9090
database:
  dbname: todo_staging
redis:
  enabled: true
wechat:
  app_id: wx-staging
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "todo_staging", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "wx-staging", cfg.WeChat.AppID)
	// Untouched keys keep their defaults.
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, "config.staging.yaml", `
server:
  port: 9090
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("TODO_SERVER_PORT", "7070")
	t.Setenv("TODO_JWT_SECRET", "from-the-environment")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-the-environment", cfg.JWT.Secret)
}
