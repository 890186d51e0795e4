// Package hub holds the dashboard's records and their persisted snapshots.
package hub

import (
	"errors"
	"fmt"
	"time"
)

// Snapshot keys in the persistent store.
const (
	KeyBookmarks = "hub_bookmarks"
	KeyTodos     = "hub_todos"
	KeyEvents    = "hub_events"
)

// Bookmark is a saved link.
type Bookmark struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Category   string `json:"category,omitempty"`
	ClickCount int    `json:"clickCount,omitempty"`
}

// DefaultBookmarkCategory is used for bookmarks saved without one.
const DefaultBookmarkCategory = "www"

// TodoCategory buckets to-dos by horizon.
type TodoCategory string

const (
	CategoryToday    TodoCategory = "today"
	CategoryTomorrow TodoCategory = "tomorrow"
	CategoryThisWeek TodoCategory = "this_week"
)

// Categories lists the to-do categories in display order.
var Categories = []TodoCategory{CategoryToday, CategoryTomorrow, CategoryThisWeek}

// ErrInvalidCategory is returned for an unknown to-do category.
var ErrInvalidCategory = errors.New("invalid category")

// ParseCategory accepts the stored names plus a few short aliases.
func ParseCategory(s string) (TodoCategory, error) {
	switch s {
	case "today", "t":
		return CategoryToday, nil
	case "tomorrow", "tm":
		return CategoryTomorrow, nil
	case "this_week", "week", "w":
		return CategoryThisWeek, nil
	}
	return "", fmt.Errorf("%w %q (today, tomorrow, this_week)", ErrInvalidCategory, s)
}

// Label is the heading shown for a category.
func (c TodoCategory) Label() string {
	switch c {
	case CategoryTomorrow:
		return "Tomorrow"
	case CategoryThisWeek:
		return "This week"
	default:
		return "Today"
	}
}

// Todo is a to-do entry. ReminderTime is a 24-hour "HH:MM" with no date.
type Todo struct {
	ID           string       `json:"id"`
	Text         string       `json:"text"`
	Category     TodoCategory `json:"category"`
	Completed    bool         `json:"completed"`
	RemindMe     bool         `json:"remindMe,omitempty"`
	ReminderTime string       `json:"reminderTime,omitempty"`
	CreatedAt    int64        `json:"createdAt,omitempty"`
}

// CalendarEvent is a dated appointment. ReminderMinutes is the lead time
// before Date+Time; nil means DefaultReminderMinutes.
type CalendarEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Person          string `json:"person"`
	Link            string `json:"link"`
	Phone           string `json:"phone"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description,omitempty"`
	RemindMe        bool   `json:"remindMe,omitempty"`
	ReminderMinutes *int   `json:"reminderMinutes,omitempty"`
}

// DefaultReminderMinutes is the lead used when an event has none set.
const DefaultReminderMinutes = 15

// Lead returns the event's reminder lead in minutes.
func (e CalendarEvent) Lead() int {
	if e.ReminderMinutes == nil {
		return DefaultReminderMinutes
	}
	return *e.ReminderMinutes
}

// Start returns the event's start in loc, or false if Date/Time do not parse.
func (e CalendarEvent) Start(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Minutes returns a pointer to n, for ReminderMinutes literals.
func Minutes(n int) *int { return &n }
