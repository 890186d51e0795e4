package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"

	"github.com/notexe/personal-hub/internal/kvstore"
)

// Notification backends.
const (
	NotifyDesktop  = "desktop"
	NotifyTelegram = "telegram"
	NotifyTerminal = "terminal"
	NotifyNone     = "none"
)

type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Notify    NotifyConfig    `koanf:"notify"`
	Timezone  string          `koanf:"timezone"`
	Log       LogConfig       `koanf:"log"`
	UI        UIConfig        `koanf:"ui"`
}

type StorageConfig struct {
	Backend string `koanf:"backend"` // sqlite, disk or memory
	Path    string `koanf:"path"`
}

type SchedulerConfig struct {
	Interval time.Duration `koanf:"interval"`
	Reset    string        `koanf:"reset"` // cron spec; empty keeps fired reminders for the whole session
}

type NotifyConfig struct {
	Backend  string         `koanf:"backend"`
	Command  string         `koanf:"command"` // overrides notify-send/osascript
	Sound    string         `koanf:"sound"`
	Player   string         `koanf:"player"`
	Icon     string         `koanf:"icon"`
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type UIConfig struct {
	ColoredOutput bool   `koanf:"colored_output"`
	HistoryFile   string `koanf:"history_file"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// HUB_SCHEDULER_INTERVAL -> scheduler.interval
	if err := k.Load(env.Provider("HUB_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		k.Set("notify.telegram.bot_token", token)
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		k.Set("notify.telegram.chat_id", chatID)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Notify.Sound = expandPath(cfg.Notify.Sound)
	cfg.UI.HistoryFile = expandPath(cfg.UI.HistoryFile)

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "HUB_"))
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + rest
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kvstore.BackendSQLite, kvstore.BackendDisk:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case kvstore.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: %s, %s, %s)",
			c.Storage.Backend, kvstore.BackendSQLite, kvstore.BackendDisk, kvstore.BackendMemory)
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}

	if c.Scheduler.Reset != "" {
		if _, err := cron.ParseStandard(c.Scheduler.Reset); err != nil {
			return fmt.Errorf("invalid scheduler.reset %q: %w", c.Scheduler.Reset, err)
		}
	}

	switch c.Notify.Backend {
	case NotifyDesktop, NotifyTerminal, NotifyNone:
	case NotifyTelegram:
		if c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("telegram notifications need a bot token and chat id (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)")
		}
	default:
		return fmt.Errorf("unknown notify backend: %s (supported: %s, %s, %s, %s)",
			c.Notify.Backend, NotifyDesktop, NotifyTelegram, NotifyTerminal, NotifyNone)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the timezone; empty means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
