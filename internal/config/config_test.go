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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "MacroRiskDashboard/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Render.Deadline)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
providers:
  fred:
    api_key: from-file
  alpha_vantage:
    api_key: av-file
render:
  deadline: 4s
  concurrency: 3
log:
  format: json
`)
	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Providers.FRED.APIKey)
	assert.Equal(t, "av-file", cfg.Providers.AlphaVantage.APIKey)
	assert.Equal(t, 4*time.Second, cfg.Render.Deadline)
	assert.Equal(t, 3, cfg.Render.Concurrency)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		cfg.Providers.FRED.APIKey = "f"
		cfg.Providers.AlphaVantage.APIKey = "a"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Providers.FRED.APIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "APIKey")

	cfg = valid()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Schedule.ReportCron = "0 0 8 * * 1-5"
	assert.ErrorContains(t, cfg.Validate(), "bot_token")

	cfg.Telegram.BotToken = "t"
	cfg.Telegram.ChatID = "1"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.TelegramEnabled())
}
