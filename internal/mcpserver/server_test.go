package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/lists"
)

func now() time.Time {
	return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
}

func newServer(t *testing.T) *Server {
	t.Helper()
	store := kvstore.NewMemory()
	for _, key := range []string{hub.KeyTodos, hub.KeyEvents, hub.KeyBookmarks} {
		require.NoError(t, store.Set(key, "[]"))
	}
	h, err := lists.OpenHub(store,
		lists.WithClock(now),
		lists.WithLocation(time.UTC),
		lists.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return NewServer(h, now)
}

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestTodoLifecycle(t *testing.T) {
	s := newServer(t)

	out, isErr := call(t, s.handleAddTodo, map[string]any{"text": "Stretch", "category": "tomorrow"})
	require.False(t, isErr, out)
	var added hub.Todo
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, hub.CategoryTomorrow, added.Category)
	assert.False(t, added.RemindMe)

	out, isErr = call(t, s.handleSetTodoReminder, map[string]any{"id": added.ID, "time": "8:00"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "08:00")

	out, _ = call(t, s.handleDueReminders, nil)
	assert.Contains(t, out, "Stretch")

	out, isErr = call(t, s.handleClearTodoReminder, map[string]any{"id": added.ID[:8]})
	require.False(t, isErr, out)

	out, _ = call(t, s.handleDueReminders, nil)
	assert.Equal(t, "No due reminders.", out)

	out, isErr = call(t, s.handleCompleteTodo, map[string]any{"id": added.ID})
	require.False(t, isErr, out)
	assert.Contains(t, out, "completed")

	out, isErr = call(t, s.handleDeleteTodo, map[string]any{"id": added.ID})
	require.False(t, isErr, out)

	out, _ = call(t, s.handleListTodos, nil)
	assert.Equal(t, "No to-dos found.", out)
}

func TestTodoErrors(t *testing.T) {
	s := newServer(t)

	_, isErr := call(t, s.handleAddTodo, map[string]any{"text": ""})
	assert.True(t, isErr)

	_, isErr = call(t, s.handleAddTodo, map[string]any{"text": "x", "category": "someday"})
	assert.True(t, isErr)

	out, _ := call(t, s.handleAddTodo, map[string]any{"text": "x"})
	var added hub.Todo
	require.NoError(t, json.Unmarshal([]byte(out), &added))

	out, isErr = call(t, s.handleSetTodoReminder, map[string]any{"id": added.ID, "time": "25:99"})
	assert.True(t, isErr)
	assert.Contains(t, out, "invalid reminder time")

	_, isErr = call(t, s.handleDeleteTodo, map[string]any{"id": "nope"})
	assert.True(t, isErr)
}

func TestEventReminderTools(t *testing.T) {
	s := newServer(t)

	out, isErr := call(t, s.handleAddEvent, map[string]any{
		"title": "Standup", "date": "2026-03-14", "time": "08:10", "location": "Room 2",
	})
	require.False(t, isErr, out)
	var added hub.CalendarEvent
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.False(t, added.RemindMe)

	out, _ = call(t, s.handleDueReminders, nil)
	assert.Equal(t, "No due reminders.", out)

	out, isErr = call(t, s.handleSetEventReminder, map[string]any{"id": added.ID, "minutes_before": float64(10)})
	require.False(t, isErr, out)
	assert.Contains(t, out, "10 minutes")

	out, _ = call(t, s.handleDueReminders, nil)
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Room 2")

	out, isErr = call(t, s.handleSetEventReminder, map[string]any{"id": added.ID, "off": true})
	require.False(t, isErr, out)
	out, _ = call(t, s.handleDueReminders, nil)
	assert.Equal(t, "No due reminders.", out)

	out, _ = call(t, s.handleListEvents, map[string]any{"range": "today"})
	assert.Contains(t, out, "Standup")
	out, _ = call(t, s.handleListEvents, map[string]any{"range": "upcoming"})
	assert.Equal(t, "No events found.", out)
	_, isErr = call(t, s.handleListEvents, map[string]any{"range": "someday"})
	assert.True(t, isErr)

	_, isErr = call(t, s.handleDeleteEvent, map[string]any{"id": added.ID})
	assert.False(t, isErr)
}

func TestAddEventRejectsBadDate(t *testing.T) {
	s := newServer(t)
	_, isErr := call(t, s.handleAddEvent, map[string]any{"title": "x", "date": "tomorrow", "time": "09:00"})
	assert.True(t, isErr)
}

func TestListBookmarks(t *testing.T) {
	s := newServer(t)
	_, err := s.hub.Bookmarks.Add("Go", "go.dev", "dev")
	require.NoError(t, err)

	out, _ := call(t, s.handleListBookmarks, map[string]any{"category": "dev"})
	assert.Contains(t, out, "https://go.dev")

	out, _ = call(t, s.handleListBookmarks, map[string]any{"category": "video"})
	assert.Equal(t, "No bookmarks found.", out)
}
