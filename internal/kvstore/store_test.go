package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()
	sqlite, err := Open(BackendSQLite, filepath.Join(dir, "db", "hub.db"))
	require.NoError(t, err)
	disk, err := Open(BackendDisk, filepath.Join(dir, "disk"))
	require.NoError(t, err)
	mem, err := Open(BackendMemory, "")
	require.NoError(t, err)

	stores := map[string]Store{
		BackendSQLite: sqlite,
		BackendDisk:   disk,
		BackendMemory: mem,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreGetMissingKey(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := s.Get("hub_todos")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("hub_todos", `[{"id":"t1"}]`))
			require.NoError(t, s.Set("hub_todos", `[]`))

			v, ok, err := s.Get("hub_todos")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, v)
		})
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Set("", "x"), ErrEmptyKey)
			_, _, err := s.Get("")
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("hub_events", `[{"id":"e1"}]`))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("hub_events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"e1"}]`, v)
}

func TestDiskSeesWritesFromAnotherInstance(t *testing.T) {
	dir := t.TempDir()
	shell := NewDisk(dir)
	daemon := NewDisk(dir)

	require.NoError(t, shell.Set("hub_todos", `[{"id":"t1"}]`))
	v, ok, err := daemon.Get("hub_todos")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, v)

	require.NoError(t, shell.Set("hub_todos", `[]`))
	v, _, err = daemon.Get("hub_todos")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", "")
	assert.ErrorContains(t, err, "unknown storage backend")
}
