package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/notexe/personal-hub/internal/kvstore"
)

// Load reads the JSON array stored under key. A missing key, a read error or
// a parse failure yields fallback() and is logged, never returned.
func Load[T any](store kvstore.Store, key string, fallback func() []T, logger *slog.Logger) []T {
	if logger == nil {
		logger = slog.Default()
	}

	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Warn("snapshot read failed, using defaults", "key", key, "error", err)
		return fallback()
	}
	if !ok {
		return fallback()
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("snapshot parse failed, using defaults", "key", key, "error", err)
		return fallback()
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save rewrites the whole snapshot under key.
func Save[T any](store kvstore.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// FillTodo repairs fields older snapshots may lack.
func FillTodo(t *Todo) {
	if t.ID == "" {
		t.ID = NewID()
	}
	switch t.Category {
	case CategoryToday, CategoryTomorrow, CategoryThisWeek:
	default:
		t.Category = CategoryToday
	}
}

// FillEvent repairs fields older snapshots may lack.
func FillEvent(e *CalendarEvent) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.ReminderMinutes != nil && *e.ReminderMinutes < 0 {
		e.ReminderMinutes = Minutes(0)
	}
}

// FillBookmark repairs fields older snapshots may lack.
func FillBookmark(b *Bookmark) {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.Category == "" {
		b.Category = DefaultBookmarkCategory
	}
	if b.ClickCount < 0 {
		b.ClickCount = 0
	}
}
