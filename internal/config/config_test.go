package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arangotui")
	require.NoError(t, InitializeAt(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "arangotui.db"), DatabasePath)
	assert.Equal(t, filepath.Join(dir, "arangotui.log"), LogPath)
	assert.Equal(t, filepath.Join(dir, "keybinds.json"), KeybindsPath)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
endpoint: https://db.example.com:8529
gae: http://gae.example.com:8080
username: admin
pageSize: 100
timeout: 5s
insecure: false
history: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://db.example.com:8529", cfg.Endpoint)
	assert.Equal(t, "http://gae.example.com:8080", cfg.GAE)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, Duration(5*time.Second), cfg.Timeout)
	require.NotNil(t, cfg.Insecure)
	assert.False(t, *cfg.Insecure)
	assert.False(t, cfg.HistoryEnabled())
}

func TestLoad_JSONC(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.jsonc", `{
  // local cluster
  "endpoint": "http://localhost:8530",
  "timeout": "750ms",
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8530", cfg.Endpoint)
	assert.Equal(t, Duration(750*time.Millisecond), cfg.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "config.toml", `endpoint = "x"`))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, dir, "bad.yaml", "timeout: forever\n"))
	assert.ErrorContains(t, err, "invalid duration")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ProbesConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitializeAt(dir))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg, "no file yields an empty config")

	writeFile(t, dir, "config.json", `{"username": "reader"}`)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "reader", cfg.Username)
}

func TestMerge_Precedence(t *testing.T) {
	file := Config{Endpoint: "http://file:8529", Username: "file-user", PageSize: 20}
	env := Config{Username: "env-user"}
	flags := Config{PageSize: 75}

	cfg := Default().Merge(file).Merge(env).Merge(flags)

	assert.Equal(t, "http://file:8529", cfg.Endpoint)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, 75, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel, "defaults survive when nothing overrides them")
	assert.True(t, cfg.HistoryEnabled())
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"ARANGOTUI_ENDPOINT":  "https://env:8529",
		"ARANGOTUI_PASSWORD":  "s3cret",
		"ARANGOTUI_PAGE_SIZE": "25",
		"ARANGOTUI_TIMEOUT":   "2s",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := FromEnv(lookup)
	require.NoError(t, err)
	assert.Equal(t, "https://env:8529", cfg.Endpoint)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, Duration(2*time.Second), cfg.Timeout)
	assert.Empty(t, cfg.Username)

	env["ARANGOTUI_PAGE_SIZE"] = "many"
	_, err = FromEnv(lookup)
	assert.ErrorContains(t, err, "ARANGOTUI_PAGE_SIZE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad scheme", func(c *Config) { c.Endpoint = "tcp://localhost:8529" }, "unsupported scheme"},
		{"missing host", func(c *Config) { c.Endpoint = "http://" }, "missing host"},
		{"bad gae", func(c *Config) { c.GAE = "localhost" }, "gae"},
		{"page size zero", func(c *Config) { c.PageSize = 0 }, "pageSize"},
		{"page size too large", func(c *Config) { c.PageSize = MaxPageSize + 1 }, "pageSize"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"cert without key", func(c *Config) { c.CertFile = "client.pem" }, "certFile and keyFile"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "logLevel"},
		{"username", func(c *Config) { c.Username = "" }, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestClientEndpoint(t *testing.T) {
	cfg := Default().Merge(Config{
		GAE:            "http://gae:8080",
		Password:       "pw",
		CAFile:         "ca.pem",
		QueryBatchSize: 10,
	})

	ep := cfg.ClientEndpoint()
	assert.Equal(t, DefaultEndpoint, ep.BaseURL)
	assert.Equal(t, "http://gae:8080", ep.GAEURL)
	assert.Equal(t, "root", ep.Username)
	assert.Equal(t, "pw", ep.Password)
	assert.True(t, ep.TLS.InsecureSkipVerify)
	assert.Equal(t, "ca.pem", ep.TLS.CAFile)
	assert.Equal(t, 10, ep.QueryBatchSize)
	assert.NoError(t, ep.Validate())
}

func TestRedacted(t *testing.T) {
	cfg := Config{Password: "pw"}
	assert.Equal(t, "********", cfg.Redacted().Password)
	assert.Equal(t, "pw", cfg.Password, "original untouched")
	assert.Empty(t, Config{}.Redacted().Password)
}
