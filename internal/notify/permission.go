// Package notify holds the notification and sound adapters the reminder
// dispatcher talks to.
package notify

import (
	"context"
	"fmt"

	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/reminder"
)

// KeyPermission is where the permission answer is kept.
const KeyPermission = "hub_notification_permission"

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Permissions is the persisted tri-state notification permission.
type Permissions struct {
	store kvstore.Store
}

func NewPermissions(store kvstore.Store) *Permissions {
	return &Permissions{store: store}
}

// Current returns the stored answer; anything unreadable counts as default.
func (p *Permissions) Current() reminder.Permission {
	v, ok, err := p.store.Get(KeyPermission)
	if err != nil || !ok {
		return reminder.PermissionDefault
	}
	switch reminder.Permission(v) {
	case reminder.PermissionGranted, reminder.PermissionDenied:
		return reminder.Permission(v)
	}
	return reminder.PermissionDefault
}

// Request asks the user while no answer is stored. A stored answer is
// returned as is.
func (p *Permissions) Request(ctx context.Context, prompter Prompter) (reminder.Permission, error) {
	if cur := p.Current(); cur != reminder.PermissionDefault {
		return cur, nil
	}

	ok, err := prompter.Confirm(ctx, "Allow personal-hub to show reminder notifications?")
	if err != nil {
		return reminder.PermissionDefault, fmt.Errorf("permission prompt failed: %w", err)
	}

	answer := reminder.PermissionDenied
	if ok {
		answer = reminder.PermissionGranted
	}
	if err := p.store.Set(KeyPermission, string(answer)); err != nil {
		return reminder.PermissionDefault, fmt.Errorf("failed to save permission: %w", err)
	}
	return answer, nil
}

// Reset forgets the stored answer so the next Request prompts again.
func (p *Permissions) Reset() error {
	if err := p.store.Set(KeyPermission, string(reminder.PermissionDefault)); err != nil {
		return fmt.Errorf("failed to reset permission: %w", err)
	}
	return nil
}

// Gated puts a permission check in front of a delivery backend.
type Gated struct {
	Perms   *Permissions
	Backend Backend
}

// Backend delivers a notification without any permission logic.
type Backend interface {
	Send(ctx context.Context, n reminder.Notification) error
}

func (g Gated) Permission(context.Context) reminder.Permission {
	return g.Perms.Current()
}

func (g Gated) Notify(ctx context.Context, n reminder.Notification) error {
	return g.Backend.Send(ctx, n)
}
