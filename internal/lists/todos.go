package lists

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/reminder"
)

// TodoList owns the to-do collection.
type TodoList struct {
	mu    sync.Mutex
	store kvstore.Store
	items []hub.Todo
	opts  options
}

// OpenTodos loads the to-do snapshot, seeding it when missing or unreadable,
// and writes it back.
func OpenTodos(store kvstore.Store, opts ...Option) (*TodoList, error) {
	o := buildOptions(opts)
	items := hub.Load(store, hub.KeyTodos, func() []hub.Todo { return hub.SeedTodos(o.now()) }, o.logger)
	for i := range items {
		hub.FillTodo(&items[i])
	}

	l := &TodoList{store: store, items: items, opts: o}
	if err := l.save(); err != nil {
		return nil, err
	}
	return l, nil
}

func todoID(t hub.Todo) string { return t.ID }

func (l *TodoList) save() error {
	return hub.Save(l.store, hub.KeyTodos, l.items)
}

// All returns a copy of the collection in display order.
func (l *TodoList) All() []hub.Todo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]hub.Todo(nil), l.items...)
}

// ByCategory returns the to-dos of one category in display order.
func (l *TodoList) ByCategory(c hub.TodoCategory) []hub.Todo {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []hub.Todo
	for _, t := range l.items {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// Find resolves an id or unique id prefix.
func (l *TodoList) Find(ref string) (hub.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, todoID, ref)
	if err != nil {
		return hub.Todo{}, fmt.Errorf("todo %w", err)
	}
	return l.items[i], nil
}

// Add appends a new to-do with reminders off.
func (l *TodoList) Add(text string, category hub.TodoCategory) (hub.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return hub.Todo{}, ErrEmptyText
	}
	if category == "" {
		category = hub.CategoryToday
	}
	if _, err := hub.ParseCategory(string(category)); err != nil {
		return hub.Todo{}, err
	}

	t := hub.Todo{
		ID:        hub.NewID(),
		Text:      strings.TrimSpace(text),
		Category:  category,
		CreatedAt: l.opts.now().UnixMilli(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, t)
	return t, l.save()
}

// update applies fn to the to-do named by ref and persists.
func (l *TodoList) update(ref string, fn func(*hub.Todo)) (hub.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, todoID, ref)
	if err != nil {
		return hub.Todo{}, fmt.Errorf("todo %w", err)
	}
	fn(&l.items[i])
	return l.items[i], l.save()
}

// Toggle flips the completed flag.
func (l *TodoList) Toggle(ref string) (hub.Todo, error) {
	return l.update(ref, func(t *hub.Todo) { t.Completed = !t.Completed })
}

// Delete removes a to-do. The scheduler stops seeing it on its next tick.
func (l *TodoList) Delete(ref string) (hub.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, todoID, ref)
	if err != nil {
		return hub.Todo{}, fmt.Errorf("todo %w", err)
	}
	removed := l.items[i]
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return removed, l.save()
}

// SetReminder sets the daily reminder time, switches reminders on and
// re-arms the item.
func (l *TodoList) SetReminder(ref, clock string) (hub.Todo, error) {
	clock = strings.TrimSpace(clock)
	h, m, err := reminder.ParseClock(clock)
	if err != nil {
		return hub.Todo{}, fmt.Errorf("%w: %v", ErrInvalidClock, err)
	}
	clock = fmt.Sprintf("%02d:%02d", h, m)

	t, err := l.update(ref, func(t *hub.Todo) {
		t.RemindMe = true
		t.ReminderTime = clock
	})
	if err != nil {
		return t, err
	}
	l.opts.rearmItem(reminder.KindTodo, t.ID)
	return t, nil
}

// ToggleReminder flips remindMe and re-arms the item. Switching on without a
// stored time is an error.
func (l *TodoList) ToggleReminder(ref string) (hub.Todo, error) {
	l.mu.Lock()
	i, err := find(l.items, todoID, ref)
	if err != nil {
		l.mu.Unlock()
		return hub.Todo{}, fmt.Errorf("todo %w", err)
	}
	t := &l.items[i]
	if !t.RemindMe && t.ReminderTime == "" {
		l.mu.Unlock()
		return *t, fmt.Errorf("%w: no reminder time set", ErrInvalidClock)
	}
	t.RemindMe = !t.RemindMe
	out := *t
	err = l.save()
	l.mu.Unlock()

	l.opts.rearmItem(reminder.KindTodo, out.ID)
	return out, err
}

// ClearReminder switches reminders off, keeping the stored time.
func (l *TodoList) ClearReminder(ref string) (hub.Todo, error) {
	t, err := l.update(ref, func(t *hub.Todo) { t.RemindMe = false })
	if err != nil {
		return t, err
	}
	l.opts.rearmItem(reminder.KindTodo, t.ID)
	return t, nil
}

// MoveToCategory moves a to-do to the end of another category.
func (l *TodoList) MoveToCategory(ref string, c hub.TodoCategory) (hub.Todo, error) {
	if _, err := hub.ParseCategory(string(c)); err != nil {
		return hub.Todo{}, err
	}
	return l.update(ref, func(t *hub.Todo) { t.Category = c })
}

// Move reorders by dropping dragRef in front of targetRef, taking the given
// category. Dropping an item on itself is a no-op.
func (l *TodoList) Move(dragRef, targetRef string, c hub.TodoCategory) error {
	if _, err := hub.ParseCategory(string(c)); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	from, err := find(l.items, todoID, dragRef)
	if err != nil {
		return fmt.Errorf("todo %w", err)
	}
	to, err := find(l.items, todoID, targetRef)
	if err != nil {
		return fmt.Errorf("todo %w", err)
	}
	if from == to {
		return nil
	}

	l.items[from].Category = c
	l.items = moveBefore(l.items, from, to)
	return l.save()
}

// Reminders converts the collection for the scheduler.
func (l *TodoList) Reminders() []reminder.Item {
	return TodoReminders(l.All())
}

// TodoReminders converts to-dos into scheduler items.
func TodoReminders(todos []hub.Todo) []reminder.Item {
	items := make([]reminder.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, reminder.Item{
			Kind:     reminder.KindTodo,
			ID:       t.ID,
			Title:    t.Text,
			Body:     fmt.Sprintf("%s · %s", t.ReminderTime, t.Category.Label()),
			RemindMe: t.RemindMe,
			Done:     t.Completed,
			Trigger:  reminder.Daily{Clock: t.ReminderTime},
		})
	}
	return items
}
