package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 20*time.Second, cfg.Scheduler.Interval)
	assert.Empty(t, cfg.Scheduler.Reset)
	assert.Equal(t, NotifyDesktop, cfg.Notify.Backend)
	assert.True(t, cfg.UI.ColoredOutput)
	assert.NotContains(t, cfg.Storage.Path, "~")
	require.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: disk
  path: /tmp/hub
scheduler:
  interval: 1m
  reset: "0 0 * * *"
notify:
  backend: terminal
timezone: UTC
`), 0o644))

	t.Setenv("HUB_SCHEDULER_INTERVAL", "45s")
	t.Setenv("HUB_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/hub", cfg.Storage.Path)
	assert.Equal(t, 45*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, "0 0 * * *", cfg.Scheduler.Reset)
	assert.Equal(t, NotifyTerminal, cfg.Notify.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestTelegramEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "99")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Notify.Telegram.BotToken)
	assert.Equal(t, "99", cfg.Notify.Telegram.ChatID)

	cfg.Notify.Backend = NotifyTelegram
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero interval", func(c *Config) { c.Scheduler.Interval = 0 }, "interval"},
		{"negative interval", func(c *Config) { c.Scheduler.Interval = -time.Second }, "interval"},
		{"bad reset", func(c *Config) { c.Scheduler.Reset = "every night" }, "scheduler.reset"},
		{"bad storage", func(c *Config) { c.Storage.Backend = "redis" }, "storage backend"},
		{"missing path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"bad notify", func(c *Config) { c.Notify.Backend = "pager" }, "notify backend"},
		{"telegram without token", func(c *Config) { c.Notify.Backend = NotifyTelegram }, "bot token"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			cfg.Notify.Telegram = TelegramConfig{}
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestMemoryBackendNeedsNoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Storage = StorageConfig{Backend: "memory"}
	assert.NoError(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "scheduler.interval", envKey("HUB_SCHEDULER_INTERVAL"))
	assert.Equal(t, "ui.colored_output", envKey("HUB_UI_COLORED_OUTPUT"))
	assert.Equal(t, "timezone", envKey("HUB_TIMEZONE"))
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn"}}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
