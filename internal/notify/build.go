package notify

import (
	"fmt"
	"log/slog"

	"github.com/notexe/personal-hub/internal/config"
	"github.com/notexe/personal-hub/internal/reminder"
)

// FromConfig builds the backend named by cfg.Backend. Extra backends, such
// as the shell's inline alert line, receive every notification as well.
// Backends that deliver in the background log failures to logger.
func FromConfig(cfg config.NotifyConfig, logger *slog.Logger, extra ...Backend) (Backend, error) {
	out := Fanout(extra)

	switch cfg.Backend {
	case config.NotifyDesktop:
		out = append(out, Desktop{Command: cfg.Command})
	case config.NotifyTelegram:
		out = append(out, NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger))
	case config.NotifyTerminal, config.NotifyNone, "":
	default:
		return nil, fmt.Errorf("unknown notify backend: %s", cfg.Backend)
	}

	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// NewDispatcher wires the permission gate, backend and sound player into a
// reminder dispatcher.
func NewDispatcher(cfg config.NotifyConfig, perms *Permissions, backend Backend, logger *slog.Logger) *reminder.Dispatcher {
	return reminder.NewDispatcher(
		Gated{Perms: perms, Backend: backend},
		logger,
		reminder.WithSound(CommandPlayer{Command: cfg.Player}, cfg.Sound),
		reminder.WithIcon(cfg.Icon),
	)
}
