package lists

import (
	"log/slog"
	"time"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/reminder"
)

// Hub bundles the views one process owns.
type Hub struct {
	Todos     *TodoList
	Events    *EventList
	Bookmarks *BookmarkList
}

// OpenHub opens all three views over one store.
func OpenHub(store kvstore.Store, opts ...Option) (*Hub, error) {
	todos, err := OpenTodos(store, opts...)
	if err != nil {
		return nil, err
	}
	events, err := OpenEvents(store, opts...)
	if err != nil {
		return nil, err
	}
	bookmarks, err := OpenBookmarks(store, opts...)
	if err != nil {
		return nil, err
	}
	return &Hub{Todos: todos, Events: events, Bookmarks: bookmarks}, nil
}

// Reminders returns to-do and event items together.
func (h *Hub) Reminders() []reminder.Item {
	return append(h.Todos.Reminders(), h.Events.Reminders()...)
}

// StoreSource reads to-dos and events straight from the store on every
// call, so a process that does not own the lists still sees every write.
type StoreSource struct {
	Store    kvstore.Store
	Location *time.Location
	Logger   *slog.Logger
}

func (s StoreSource) Reminders() []reminder.Item {
	todos := hub.Load(s.Store, hub.KeyTodos, func() []hub.Todo { return nil }, s.Logger)
	events := hub.Load(s.Store, hub.KeyEvents, func() []hub.CalendarEvent { return nil }, s.Logger)

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return append(TodoReminders(todos), EventReminders(events, loc)...)
}
