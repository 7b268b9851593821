package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tinyweb/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Server.ReadTimeout)
	assert.Equal(t, 1, cfg.Server.PollInterval)
	assert.Equal(t, 128, cfg.Server.FileChunkSize)
	assert.Equal(t, 512, cfg.Server.MaxRequestLine)
	assert.Equal(t, 4096, cfg.Server.MaxBodySize)
	assert.Equal(t, "filesystem", cfg.Storage.Type)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Equal(t, "tinyweb_files", cfg.Storage.Table)
	assert.Equal(t, int64(1<<20), cfg.Storage.Capacity)
	assert.Equal(t, 8081, cfg.Dev.Port)
	assert.False(t, cfg.Dev.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
server:
  port: 80
  read_timeout: 250
  file_chunk_size: 64
storage:
  type: sqlite
  dsn: /var/lib/tinyweb.db
  table: device_files
  capacity: 4096
dev:
  port: 3000
  cors:
    enabled: true
    allowed_origins:
      - http://localhost:5173
    allowed_headers:
      - Content-Type
    max_age: 600
log:
  level: debug
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Server.ReadTimeout)
	assert.Equal(t, 64, cfg.Server.FileChunkSize)
	assert.Equal(t, 512, cfg.Server.MaxRequestLine, "unset keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/var/lib/tinyweb.db", cfg.Storage.DSN)
	assert.Equal(t, "device_files", cfg.Storage.Table)
	assert.Equal(t, int64(4096), cfg.Storage.Capacity)
	assert.Equal(t, 3000, cfg.Dev.Port)
	assert.True(t, cfg.Dev.CORS.Enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Dev.CORS.AllowedOrigins)
	assert.Equal(t, []string{"Content-Type"}, cfg.Dev.CORS.AllowedHeaders)
	assert.Equal(t, 600, cfg.Dev.CORS.MaxAge)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	basePath := writeConfig(t, "base.yaml", `
server:
  port: 8080
storage:
  type: filesystem
  path: /srv/www
log:
  level: info
`)
	overridePath := writeConfig(t, "override.yaml", `
server:
  port: 9000
log:
  level: warn
`)

	// Load with merge (later files override earlier)
	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Preserved values from base
	assert.Equal(t, "/srv/www", cfg.Storage.Path)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Content string
	}{
		{Name: "invalid port", Content: "server:\n  port: 99999\n"},
		{Name: "zero read timeout", Content: "server:\n  read_timeout: 0\n"},
		{Name: "tiny request line", Content: "server:\n  max_request_line: 8\n"},
		{Name: "unknown storage type", Content: "storage:\n  type: s3\n"},
		{Name: "sql storage without dsn", Content: "storage:\n  type: postgres\n"},
		{Name: "invalid log level", Content: "log:\n  level: verbose\n"},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			configPath := writeConfig(t, "config.yaml", tt.Content)

			_, err := config.Load([]string{configPath}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	t.Setenv("TINYWEB_SERVER_PORT", "9090")
	t.Setenv("TINYWEB_STORAGE_TYPE", "postgres")
	t.Setenv("TINYWEB_STORAGE_DSN", "postgres://device@localhost/tinyweb")
	t.Setenv("TINYWEB_LOG_LEVEL", "error")
	t.Setenv("TINYWEB_ENV", "production")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://device@localhost/tinyweb", cfg.Storage.DSN)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("TINYWEB_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("storage-path", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--storage-path", "/tmp/www"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port, "flags beat env")
	assert.Equal(t, "/tmp/www", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level, "unchanged flags are not bound")
}

func TestServerConfig_EngineConfig(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	engine := cfg.Server.EngineConfig()
	assert.Equal(t, 500*time.Millisecond, engine.ReadTimeout)
	assert.Equal(t, 128, engine.FileChunkSize)
	assert.Equal(t, 512, engine.MaxRequestLine)
	assert.Equal(t, 4096, engine.MaxBodySize)
}

func TestStorageConfig_DatabaseConfig(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	db := cfg.Storage.DatabaseConfig()
	assert.Equal(t, "filesystem", db.Type)
	assert.Equal(t, "./data", db.Path)
	assert.Equal(t, "tinyweb_files", db.Table)
	assert.Equal(t, int64(1<<20), db.Capacity)
}

func TestFromContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
