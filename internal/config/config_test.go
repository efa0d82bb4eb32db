package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/folio/internal/config"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) config.Options {
	t.Helper()
	return config.Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOLIO_CONFIG_PATH", "")
	t.Setenv("FOLIO_API_URL", "")
	t.Setenv("FOLIO_MCP_PORT", "")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.API.URL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 8080, cfg.MCP.Port)
	require.Equal(t, "127.0.0.1:8080", cfg.MCP.Addr())
	require.Zero(t, cfg.Reorder.MaxConcurrency)
	require.False(t, cfg.Reorder.FullRecord)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  url: https://api.example.com
  timeout: 5s
reorder:
  max_concurrency: 4
  full_record: true
mcp:
  port: 9000
  token: from-file
`), 0o600))

	t.Setenv("FOLIO_CONFIG_PATH", path)
	t.Setenv("FOLIO_MCP_TOKEN", "from-env")
	t.Setenv("FOLIO_API_URL", "")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.API.URL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, 4, cfg.Reorder.MaxConcurrency)
	require.True(t, cfg.Reorder.FullRecord)
	require.Equal(t, 9000, cfg.MCP.Port)
	require.Equal(t, "from-env", cfg.MCP.Token)
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	flagPath := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("log:\n  level: warn\n"), 0o600))
	require.NoError(t, os.WriteFile(flagPath, []byte("log:\n  level: debug\n"), 0o600))
	t.Setenv("FOLIO_CONFIG_PATH", envPath)
	t.Setenv("FOLIO_LOG_LEVEL", "")

	opts := noEnvFile(t)
	opts.Path = flagPath
	cfg, err := config.Load(opts)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FOLIO_API_URL=https://dotenv.example.com\nFOLIO_CACHE_PATH=/tmp/dotenv.db\n"), 0o600))
	t.Setenv("FOLIO_CONFIG_PATH", "")
	t.Setenv("FOLIO_API_URL", "https://real.example.com")
	unsetEnv(t, "FOLIO_CACHE_PATH")

	cfg, err := config.Load(config.Options{EnvFile: envFile})
	require.NoError(t, err)
	require.Equal(t, "https://real.example.com", cfg.API.URL)
	require.Equal(t, "/tmp/dotenv.db", cfg.Cache.Path)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("FOLIO_CONFIG_PATH", "")

	cases := map[string]string{
		"FOLIO_MCP_PORT":                "eighty",
		"FOLIO_REORDER_MAX_CONCURRENCY": "-1",
		"FOLIO_API_TIMEOUT":             "soon",
		"FOLIO_REORDER_FULL_RECORD":     "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load(noEnvFile(t))
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	opts := noEnvFile(t)
	opts.Path = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := config.Load(opts)
	require.ErrorContains(t, err, "read config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mcp: [unclosed"), 0o600))
	opts := noEnvFile(t)
	opts.Path = path
	_, err := config.Load(opts)
	require.ErrorContains(t, err, "parse config file")
}
