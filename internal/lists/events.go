package lists

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/reminder"
)

// EventList owns the calendar.
type EventList struct {
	mu    sync.Mutex
	store kvstore.Store
	items []hub.CalendarEvent
	opts  options
}

// OpenEvents loads the event snapshot, seeding it when missing or
// unreadable, and writes it back.
func OpenEvents(store kvstore.Store, opts ...Option) (*EventList, error) {
	o := buildOptions(opts)
	items := hub.Load(store, hub.KeyEvents, func() []hub.CalendarEvent {
		return hub.SeedEvents(o.now().In(o.loc))
	}, o.logger)
	for i := range items {
		hub.FillEvent(&items[i])
	}

	l := &EventList{store: store, items: items, opts: o}
	if err := l.save(); err != nil {
		return nil, err
	}
	return l, nil
}

func eventID(e hub.CalendarEvent) string { return e.ID }

func (l *EventList) save() error {
	return hub.Save(l.store, hub.KeyEvents, l.items)
}

// All returns a copy of the calendar in stored order.
func (l *EventList) All() []hub.CalendarEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]hub.CalendarEvent(nil), l.items...)
}

// Find resolves an id or unique id prefix.
func (l *EventList) Find(ref string) (hub.CalendarEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, eventID, ref)
	if err != nil {
		return hub.CalendarEvent{}, fmt.Errorf("event %w", err)
	}
	return l.items[i], nil
}

// Add validates and appends an event, assigning it a fresh id. Events may
// opt in to reminders at creation.
func (l *EventList) Add(e hub.CalendarEvent) (hub.CalendarEvent, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return e, fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if _, ok := e.Start(l.opts.loc); !ok {
		return e, fmt.Errorf("%w: want date YYYY-MM-DD and time HH:MM, got %q %q", ErrInvalidEvent, e.Date, e.Time)
	}
	e.ID = hub.NewID()
	hub.FillEvent(&e)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, e)
	return e, l.save()
}

// Import appends events read from elsewhere, assigning fresh ids.
func (l *EventList) Import(events []hub.CalendarEvent) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range events {
		e.ID = hub.NewID()
		hub.FillEvent(&e)
		l.items = append(l.items, e)
	}
	return len(events), l.save()
}

// Delete removes an event.
func (l *EventList) Delete(ref string) (hub.CalendarEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, eventID, ref)
	if err != nil {
		return hub.CalendarEvent{}, fmt.Errorf("event %w", err)
	}
	removed := l.items[i]
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return removed, l.save()
}

func (l *EventList) update(ref string, fn func(*hub.CalendarEvent)) (hub.CalendarEvent, error) {
	l.mu.Lock()
	i, err := find(l.items, eventID, ref)
	if err != nil {
		l.mu.Unlock()
		return hub.CalendarEvent{}, fmt.Errorf("event %w", err)
	}
	fn(&l.items[i])
	out := l.items[i]
	err = l.save()
	l.mu.Unlock()

	l.opts.rearmItem(reminder.KindEvent, out.ID)
	return out, err
}

// ToggleReminder flips remindMe and re-arms the event.
func (l *EventList) ToggleReminder(ref string) (hub.CalendarEvent, error) {
	return l.update(ref, func(e *hub.CalendarEvent) { e.RemindMe = !e.RemindMe })
}

// ClearReminder switches the reminder off, keeping the lead.
func (l *EventList) ClearReminder(ref string) (hub.CalendarEvent, error) {
	return l.update(ref, func(e *hub.CalendarEvent) { e.RemindMe = false })
}

// SetLead sets the reminder lead in minutes, switches reminders on and
// re-arms the event.
func (l *EventList) SetLead(ref string, minutes int) (hub.CalendarEvent, error) {
	if minutes < 0 {
		return hub.CalendarEvent{}, fmt.Errorf("%w: lead must not be negative", ErrInvalidEvent)
	}
	return l.update(ref, func(e *hub.CalendarEvent) {
		e.RemindMe = true
		e.ReminderMinutes = hub.Minutes(minutes)
	})
}

// Today returns the events dated on now's day, ordered by time.
func (l *EventList) Today(now time.Time) []hub.CalendarEvent {
	day := now.In(l.opts.loc).Format("2006-01-02")
	var out []hub.CalendarEvent
	for _, e := range l.All() {
		if e.Date == day {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out
}

// Upcoming returns events dated after now's day, ordered by date and time.
func (l *EventList) Upcoming(now time.Time) []hub.CalendarEvent {
	day := now.In(l.opts.loc).Format("2006-01-02")
	var out []hub.CalendarEvent
	for _, e := range l.All() {
		if e.Date > day {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out
}

func sortEvents(events []hub.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
}

// Reminders converts the calendar for the scheduler.
func (l *EventList) Reminders() []reminder.Item {
	return EventReminders(l.All(), l.opts.loc)
}

// EventReminders converts events into scheduler items.
func EventReminders(events []hub.CalendarEvent, loc *time.Location) []reminder.Item {
	items := make([]reminder.Item, 0, len(events))
	for _, e := range events {
		items = append(items, reminder.Item{
			Kind:     reminder.KindEvent,
			ID:       e.ID,
			Title:    e.Title,
			Body:     eventBody(e),
			RemindMe: e.RemindMe,
			Trigger:  reminder.EventWindow(e.Date, e.Time, e.Lead(), loc),
		})
	}
	return items
}

func eventBody(e hub.CalendarEvent) string {
	parts := []string{e.Time}
	switch {
	case e.Location != "":
		parts = append(parts, e.Location)
	case e.Person != "":
		parts = append(parts, e.Person)
	}
	return strings.Join(parts, " · ")
}
