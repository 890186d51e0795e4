package reminder

import (
	"context"
	"log/slog"
)

// Permission is the tri-state answer of the notification facility.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Notification is what gets raised for a fired item.
type Notification struct {
	Title string
	Body  string
	Icon  string
}

// Notifier raises user-visible notifications behind a permission gate.
type Notifier interface {
	Permission(ctx context.Context) Permission
	Notify(ctx context.Context, n Notification) error
}

// Player starts playback of a short sound resource and returns without
// waiting for it to finish.
type Player interface {
	Play(ctx context.Context, resource string) error
}

// Dispatcher turns a fired item into a sound and, when permitted, a
// notification.
type Dispatcher struct {
	notifier Notifier
	player   Player
	sound    string
	icon     string
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSound sets the player and the resource it plays on every alert.
func WithSound(p Player, resource string) DispatcherOption {
	return func(d *Dispatcher) {
		d.player = p
		d.sound = resource
	}
}

// WithIcon sets the icon attached to notifications.
func WithIcon(icon string) DispatcherOption {
	return func(d *Dispatcher) { d.icon = icon }
}

// NewDispatcher creates a Dispatcher. A nil notifier leaves sound as the only
// output.
func NewDispatcher(notifier Notifier, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{notifier: notifier, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch plays the alert sound and raises a notification. Failures are
// logged and never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, it Item) {
	if d.player != nil && d.sound != "" {
		if err := d.player.Play(ctx, d.sound); err != nil {
			d.logger.Debug("alert sound failed", "item", it.Key(), "error", err)
		}
	}

	if d.notifier == nil {
		return
	}
	if d.notifier.Permission(ctx) != PermissionGranted {
		return
	}

	n := Notification{Title: it.Title, Body: it.Body, Icon: d.icon}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn("notification failed", "item", it.Key(), "error", err)
	}
}
