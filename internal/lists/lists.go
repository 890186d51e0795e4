// Package lists implements the views that own the hub's collections. They
// are the only writers of reminder fields and persist a full snapshot after
// every change.
package lists

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notexe/personal-hub/internal/reminder"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrAmbiguous    = errors.New("ambiguous id prefix")
	ErrEmptyText    = errors.New("text must not be empty")
	ErrInvalidClock = errors.New("invalid reminder time")
	ErrInvalidEvent = errors.New("invalid event")
)

// Rearmer is told when an item's fired state must be cleared.
type Rearmer interface {
	Rearm(kind reminder.Kind, id string)
}

type options struct {
	rearm  Rearmer
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures a list.
type Option func(*options)

// WithRearmer connects the list to a scheduler.
func WithRearmer(r Rearmer) Option {
	return func(o *options) { o.rearm = r }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone event dates and times are read in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) rearmItem(kind reminder.Kind, id string) {
	if o.rearm != nil {
		o.rearm.Rearm(kind, id)
	}
}

// find resolves ref to an index, accepting an exact id or a unique prefix.
func find[T any](items []T, id func(T) string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	match := -1
	for i, it := range items {
		got := id(it)
		if got == ref {
			return i, nil
		}
		if strings.HasPrefix(got, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}

// moveBefore removes the item at from and reinserts it in front of the item
// that was at target.
func moveBefore[T any](items []T, from, target int) []T {
	moved := items[from]
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	if target > from {
		target--
	}
	out = append(out[:target], append([]T{moved}, out[target:]...)...)
	return out
}
