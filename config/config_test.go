package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "tutti.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
system:
  workdir: `+dir+`
web:
  port: 9090
upstream:
  base_url: http://api.tutti.local
  timeout: 15
database:
  type: postgres
  name: tutti
`), 0o600))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host, "unset keys keep defaults")
	assert.Equal(t, "http://api.tutti.local", cfg.Upstream.BaseURL)
	assert.Equal(t, int64(15), int64(cfg.UpstreamTimeout().Seconds()))
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.DirExists(t, cfg.GetDataDir())
	assert.DirExists(t, cfg.GetLogDir())
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TUTTI_SYSTEM_WORKER_DIR", dir)
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web: [oops"), 0o600))
	_, err := LoadConfig(cfile)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TUTTI_WEB_PORT":                "7000",
		"TUTTI_API_URL":                 " https://api.example.co ",
		"TUTTI_API_TIMEOUT":             "not-a-number",
		"TUTTI_LOGGER_FILE_ENABLE":      "false",
		"TUTTI_WEB_REQUESTS_PER_SECOND": "12.5",
		"TUTTI_DB_HOST":                 "   ",
	}
	cfg := *DefaultAppConfig
	applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, 7000, cfg.Web.Port)
	assert.Equal(t, "https://api.example.co", cfg.Upstream.BaseURL)
	assert.Equal(t, 0, cfg.Upstream.Timeout, "invalid numbers are ignored")
	assert.False(t, cfg.Logger.FileEnable)
	assert.Equal(t, 12.5, cfg.Web.RequestsPerSecond)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host, "blank values are ignored")
	assert.True(t, DefaultAppConfig.Logger.FileEnable, "defaults untouched")
}
