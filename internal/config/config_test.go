package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success: Defaults with secret from env", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "env-secret")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
		assert.Equal(t, "env-secret", cfg.JWT.Secret)
		assert.Equal(t, 30*time.Minute, cfg.Redis.CacheTTL)
	})

	t.Run("Success: YAML then env override", func(t *testing.T) {
		path := writeFile(t, `
server:
  port: "9000"
db:
  host: db.internal
  port: 6543
storage:
  driver: memory
jwt:
  secret: file-secret
app:
  default_timezone: Europe/Rome
  rate_window: 30s
`)
		t.Setenv("DB_HOST", "override.internal")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Server.Port)
		assert.Equal(t, "override.internal", cfg.DB.Host)
		assert.Equal(t, 6543, cfg.DB.Port)
		assert.Equal(t, StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, "file-secret", cfg.JWT.Secret)
		assert.Equal(t, "Europe/Rome", cfg.App.DefaultTimezone)
		assert.Equal(t, 30*time.Second, cfg.App.RateWindow)
		assert.Equal(t, 100, cfg.App.RateLimit, "unset keys keep defaults")
	})

	t.Run("Fail: Missing JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		path := writeFile(t, "storage:\n  driver: memory\n")

		_, err := Load(path)
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("Fail: Unknown storage driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORAGE_DRIVER", "mongo")

		_, err := Load("")
		assert.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("Fail: Malformed YAML", func(t *testing.T) {
		path := writeFile(t, "server: [unterminated")

		_, err := Load(path)
		assert.ErrorContains(t, err, "parse")
	})
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", c.DSN())
}
