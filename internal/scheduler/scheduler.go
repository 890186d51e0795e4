// Package scheduler polls reminder sources on a fixed interval and fires
// each due item at most once per scheduler lifetime.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/notexe/personal-hub/internal/reminder"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 20 * time.Second

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("scheduler already running")

// Source hands the scheduler a fresh snapshot of reminder-bearing items.
type Source interface {
	Reminders() []reminder.Item
}

// SourceFunc adapts a function to Source.
type SourceFunc func() []reminder.Item

func (f SourceFunc) Reminders() []reminder.Item { return f() }

// Alerter receives fired items.
type Alerter interface {
	Dispatch(ctx context.Context, it reminder.Item)
}

// Scheduler runs the reminder poll loop.
type Scheduler struct {
	source   Source
	alerter  Alerter
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu sync.Mutex
	// fired maps item keys to the trigger signature they fired with.
	fired map[string]string

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the time source; it is used by tests and to pin a
// timezone.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a Scheduler reading from source and firing into alerter.
func New(source Source, alerter Alerter, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		alerter:  alerter,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   slog.Default(),
		fired:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks and runs Evaluate on interval + immediately on start.
// It exits when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.logger.Info("scheduler started", "interval", s.interval)

	s.Evaluate(ctx, s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.Evaluate(ctx, s.now())
		}
	}
}

// Start runs the loop in the background until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		if err := s.Run(ctx); err != nil {
			s.logger.Error("scheduler loop failed", "error", err)
		}
	}()
	return nil
}

// Stop cancels a loop started with Start and waits for it to exit. After
// Stop returns no further alerts are dispatched.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Evaluate checks every item of a fresh snapshot against now, dispatches the
// ones that are due and not yet fired, and returns them.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time) []reminder.Item {
	items := s.source.Reminders()

	s.mu.Lock()
	s.forgetStale(items)

	var due []reminder.Item
	for _, it := range items {
		if !it.Active() {
			continue
		}
		key := it.Key()
		if _, ok := s.fired[key]; ok {
			continue
		}
		if !it.Trigger.Due(now) {
			continue
		}
		s.fired[key] = it.Trigger.String()
		due = append(due, it)
	}
	s.mu.Unlock()

	for _, it := range due {
		s.logger.Info("reminder fired", "kind", it.Kind, "id", it.ID, "title", it.Title)
		s.alerter.Dispatch(ctx, it)
	}
	return due
}

// forgetStale drops fired entries for items that were deleted, switched off
// or had their trigger edited. Callers hold s.mu.
func (s *Scheduler) forgetStale(items []reminder.Item) {
	if len(s.fired) == 0 {
		return
	}

	current := make(map[string]reminder.Item, len(items))
	for _, it := range items {
		current[it.Key()] = it
	}

	for key, sig := range s.fired {
		it, ok := current[key]
		switch {
		case !ok, !it.RemindMe, it.Trigger == nil:
			delete(s.fired, key)
		case it.Trigger.String() != sig:
			delete(s.fired, key)
		}
	}
}

// Rearm clears the fired state of one item so it can fire again.
func (s *Scheduler) Rearm(kind reminder.Kind, id string) {
	key := reminder.Item{Kind: kind, ID: id}.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fired[key]; ok {
		delete(s.fired, key)
		s.logger.Debug("reminder re-armed", "kind", kind, "id", id)
	}
}

// Reset clears the whole fired-set.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired = make(map[string]string)
	s.logger.Debug("fired reminders reset")
}

// Fired reports whether the item already fired in this session.
func (s *Scheduler) Fired(kind reminder.Kind, id string) bool {
	key := reminder.Item{Kind: kind, ID: id}.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fired[key]
	return ok
}
