package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points the default config dir at an empty temp dir.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, storeMemory, cfg.Server.Store)
	assert.Equal(t, "us-east-1", cfg.Server.Region)
	assert.Equal(t, 200, cfg.Server.MaxBulk)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("DATATUI_BASE_URL", "https://data.example.com")
	t.Setenv("DATATUI_TIMEOUT", "3s")
	t.Setenv("DATATUI_SERVER_MAX_BULK", "25")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://data.example.com", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 25, cfg.Server.MaxBulk)
}

func TestLoadConfig_File(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "datatui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://api.internal:8080
timeout: 750ms
log:
  level: debug
  format: json
server:
  store: dynamodb
  table: records
  region: eu-north-1
`), 0644))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:8080", cfg.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, storeDynamoDB, cfg.Server.Store)
	assert.Equal(t, "records", cfg.Server.Table)
	assert.Equal(t, "eu-north-1", cfg.Server.Region)
	assert.Equal(t, 200, cfg.Server.MaxBulk)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	isolateHome(t)
	dir, err := getConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("base_url: http://from-home:5000\n"), 0644))

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://from-home:5000", cfg.BaseURL)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr string
	}{
		{name: "valid", cfg: Config{BaseURL: "https://x.example", Timeout: time.Second}},
		{name: "relative url", cfg: Config{BaseURL: "/api", Timeout: time.Second}, expectErr: "base_url must be an absolute http(s) URL"},
		{name: "other scheme", cfg: Config{BaseURL: "ftp://x.example", Timeout: time.Second}, expectErr: "base_url must be an absolute http(s) URL"},
		{name: "zero timeout", cfg: Config{BaseURL: "http://x.example"}, expectErr: "timeout must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestConfig_ValidateServer(t *testing.T) {
	valid := ServerConfig{Addr: ":5000", Store: storeMemory, MaxBulk: 200}

	testCases := []struct {
		name      string
		mutate    func(*ServerConfig)
		expectErr string
	}{
		{name: "valid", mutate: func(*ServerConfig) {}},
		{name: "no addr", mutate: func(s *ServerConfig) { s.Addr = "" }, expectErr: "server.addr is required"},
		{name: "zero max bulk", mutate: func(s *ServerConfig) { s.MaxBulk = 0 }, expectErr: "server.max_bulk must be positive"},
		{name: "negative seed", mutate: func(s *ServerConfig) { s.Seed = -1 }, expectErr: "server.seed cannot be negative"},
		{name: "dynamodb without table", mutate: func(s *ServerConfig) { s.Store = storeDynamoDB }, expectErr: "server.table is required"},
		{name: "unknown store", mutate: func(s *ServerConfig) { s.Store = "redis" }, expectErr: `unknown server.store "redis"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := valid
			tc.mutate(&server)
			err := (&Config{Server: server}).ValidateServer()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}
