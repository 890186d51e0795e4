package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind tells which collection an item belongs to.
type Kind string

const (
	KindTodo  Kind = "todo"
	KindEvent Kind = "event"
)

// DefaultGrace is how long after an event starts its reminder may still fire.
const DefaultGrace = 30 * time.Minute

// Item is the scheduler's read-only view of a reminder-bearing record.
type Item struct {
	Kind     Kind
	ID       string
	Title    string
	Body     string
	RemindMe bool
	// Done marks completed to-dos. Done items never fire but keep their
	// fired state.
	Done    bool
	Trigger Trigger
}

// Key identifies the item across collections.
func (it Item) Key() string {
	return string(it.Kind) + ":" + it.ID
}

// Active reports whether the item participates in scheduling.
func (it Item) Active() bool {
	return it.RemindMe && !it.Done && it.Trigger != nil
}

// Trigger decides whether a reminder is due at a given instant.
type Trigger interface {
	Due(now time.Time) bool
	// String is a stable signature; a change means the trigger was edited.
	String() string
}

// Daily fires during the wall-clock minute named by Clock, every day.
type Daily struct {
	Clock string
}

func (d Daily) Due(now time.Time) bool {
	h, m, err := ParseClock(d.Clock)
	if err != nil {
		return false
	}
	return now.Hour() == h && now.Minute() == m
}

func (d Daily) String() string {
	return "daily@" + d.Clock
}

// Window fires for any instant in [At-Lead, At+Grace).
type Window struct {
	At    time.Time
	Lead  time.Duration
	Grace time.Duration
}

func (w Window) Due(now time.Time) bool {
	if w.At.IsZero() {
		return false
	}
	start := w.At.Add(-w.Lead)
	end := w.At.Add(w.Grace)
	return !now.Before(start) && now.Before(end)
}

func (w Window) String() string {
	return fmt.Sprintf("window@%s-%s+%s", w.At.Format(time.RFC3339), w.Lead, w.Grace)
}

// EventWindow builds the firing window of an event from its date ("YYYY-MM-DD"),
// time ("HH:MM") and lead minutes. An unparseable date or time yields a
// window that never matches.
func EventWindow(date, clock string, leadMinutes int, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	if leadMinutes < 0 {
		leadMinutes = 0
	}
	w := Window{
		Lead:  time.Duration(leadMinutes) * time.Minute,
		Grace: DefaultGrace,
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return w
	}
	h, m, err := ParseClock(clock)
	if err != nil {
		return w
	}
	w.At = time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
	return w
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Due returns the active items whose trigger matches now, without firing
// anything.
func Due(items []Item, now time.Time) []Item {
	var due []Item
	for _, it := range items {
		if it.Active() && it.Trigger.Due(now) {
			due = append(due, it)
		}
	}
	return due
}
