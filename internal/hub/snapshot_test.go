package hub

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/personal-hub/internal/kvstore"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadMissingKeyUsesFallback(t *testing.T) {
	store := kvstore.NewMemory()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	got := Load(store, KeyTodos, func() []Todo { return SeedTodos(now) }, quiet)
	assert.Equal(t, SeedTodos(now), got)
}

func TestLoadCorruptSnapshotUsesFallback(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(KeyEvents, "{not json"))

	got := Load(store, KeyEvents, func() []CalendarEvent { return []CalendarEvent{} }, quiet)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSaveLoadKeepsReminderFields(t *testing.T) {
	store := kvstore.NewMemory()
	events := []CalendarEvent{{ID: "e2", Title: "Team sync", Date: "2026-03-15", Time: "09:30", RemindMe: true, ReminderMinutes: Minutes(10)}}
	require.NoError(t, Save(store, KeyEvents, events))

	got := Load(store, KeyEvents, func() []CalendarEvent { return nil }, quiet)
	if diff := cmp.Diff(events, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, Save[Todo](store, KeyTodos, nil))

	raw, ok, err := store.Get(KeyTodos)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestFillTodoRepairsCategoryAndID(t *testing.T) {
	td := Todo{Text: "x", Category: "someday"}
	FillTodo(&td)
	assert.Equal(t, CategoryToday, td.Category)
	assert.NotEmpty(t, td.ID)
}

func TestFillEventClampsNegativeLead(t *testing.T) {
	e := CalendarEvent{ID: "e1", ReminderMinutes: Minutes(-5)}
	FillEvent(&e)
	assert.Equal(t, 0, e.Lead())
	assert.Equal(t, DefaultReminderMinutes, CalendarEvent{}.Lead())
}

func TestEventStart(t *testing.T) {
	e := CalendarEvent{Date: "2026-03-14", Time: "10:00"}
	start, ok := e.Start(time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), start)

	_, ok = CalendarEvent{Date: "tomorrow", Time: "10:00"}.Start(time.UTC)
	assert.False(t, ok)
}

func TestSeedEventsNextMonday(t *testing.T) {
	// 2026-03-14 is a Saturday.
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	events := SeedEvents(now)
	assert.Equal(t, "2026-03-16", events[2].Date)
	assert.Equal(t, "2026-03-15", events[1].Date)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("week")
	require.NoError(t, err)
	assert.Equal(t, CategoryThisWeek, c)

	_, err = ParseCategory("someday")
	assert.Error(t, err)
}
