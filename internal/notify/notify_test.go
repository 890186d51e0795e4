package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/personal-hub/internal/config"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/reminder"
)

type answer struct {
	yes   bool
	err   error
	asked int
}

func (a *answer) Confirm(context.Context, string) (bool, error) {
	a.asked++
	return a.yes, a.err
}

func TestPermissionsStartAsDefault(t *testing.T) {
	p := NewPermissions(kvstore.NewMemory())
	assert.Equal(t, reminder.PermissionDefault, p.Current())
}

func TestPermissionsRequestOnlyPromptsOnce(t *testing.T) {
	p := NewPermissions(kvstore.NewMemory())
	a := &answer{yes: true}

	got, err := p.Request(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, reminder.PermissionGranted, got)

	got, err = p.Request(context.Background(), &answer{yes: false})
	require.NoError(t, err)
	assert.Equal(t, reminder.PermissionGranted, got)
	assert.Equal(t, 1, a.asked)
}

func TestPermissionsDeniedAndReset(t *testing.T) {
	p := NewPermissions(kvstore.NewMemory())

	got, err := p.Request(context.Background(), &answer{yes: false})
	require.NoError(t, err)
	assert.Equal(t, reminder.PermissionDenied, got)

	require.NoError(t, p.Reset())
	assert.Equal(t, reminder.PermissionDefault, p.Current())
}

func TestPermissionsPromptErrorKeepsDefault(t *testing.T) {
	p := NewPermissions(kvstore.NewMemory())

	_, err := p.Request(context.Background(), &answer{err: errors.New("not a terminal")})
	assert.Error(t, err)
	assert.Equal(t, reminder.PermissionDefault, p.Current())
}

func TestPermissionsIgnoresGarbage(t *testing.T) {
	s := kvstore.NewMemory()
	require.NoError(t, s.Set(KeyPermission, "maybe"))
	assert.Equal(t, reminder.PermissionDefault, NewPermissions(s).Current())
}

type recordBackend struct {
	sent []reminder.Notification
	err  error
}

func (r *recordBackend) Send(_ context.Context, n reminder.Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func TestGatedReportsStoredPermission(t *testing.T) {
	s := kvstore.NewMemory()
	require.NoError(t, s.Set(KeyPermission, string(reminder.PermissionGranted)))
	b := &recordBackend{}
	g := Gated{Perms: NewPermissions(s), Backend: b}

	assert.Equal(t, reminder.PermissionGranted, g.Permission(context.Background()))
	require.NoError(t, g.Notify(context.Background(), reminder.Notification{Title: "x"}))
	assert.Len(t, b.sent, 1)
}

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recordBackend{}
	bad := &recordBackend{err: errors.New("offline")}

	err := Fanout{bad, ok}.Send(context.Background(), reminder.Notification{Title: "x"})
	assert.ErrorContains(t, err, "offline")
	assert.Len(t, ok.sent, 1)
	assert.Len(t, bad.sent, 1)
}

func TestTerminalWritesAlert(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	require.NoError(t, term.Send(context.Background(), reminder.Notification{Title: "Team sync", Body: "09:30 · Online"}))
	assert.Contains(t, buf.String(), "Team sync")
	assert.Contains(t, buf.String(), "09:30 · Online")
	assert.Contains(t, buf.String(), "\a")
}

func TestTelegramSend(t *testing.T) {
	var got telegramSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42", nil)
	tg.baseURL = srv.URL

	require.NoError(t, tg.deliver(context.Background(), reminder.Notification{Title: "A<b>", Body: "B"}))
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "A&lt;b&gt;")
}

func TestTelegramAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42", nil)
	tg.baseURL = srv.URL

	err := tg.deliver(context.Background(), reminder.Notification{Title: "x"})
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegramSlowAPIDoesNotBlockDispatch(t *testing.T) {
	release := make(chan struct{})
	served := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got telegramSendRequest
		json.NewDecoder(r.Body).Decode(&got)
		<-release
		w.Write([]byte(`{"ok":true}`))
		served <- got.Text
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42", slog.New(slog.NewTextHandler(io.Discard, nil)))
	tg.baseURL = srv.URL

	s := kvstore.NewMemory()
	require.NoError(t, s.Set(KeyPermission, string(reminder.PermissionGranted)))
	d := NewDispatcher(config.NotifyConfig{}, NewPermissions(s), tg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	d.Dispatch(ctx, reminder.Item{Kind: reminder.KindTodo, ID: "1", Title: "Stretch"})
	assert.Less(t, time.Since(start), time.Second)
	cancel()

	close(release)
	select {
	case text := <-served:
		assert.Contains(t, text, "Stretch")
	case <-time.After(5 * time.Second):
		t.Fatal("telegram message was never delivered")
	}
}

func TestTelegramSendLogsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	var logs safeBuffer
	tg := NewTelegram("TOKEN", "42", slog.New(slog.NewTextHandler(&logs, nil)))
	tg.baseURL = srv.URL

	require.NoError(t, tg.Send(context.Background(), reminder.Notification{Title: "x"}))
	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "chat not found")
	}, 5*time.Second, 10*time.Millisecond)
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCommandPlayerMissingResource(t *testing.T) {
	p := CommandPlayer{Command: "true"}
	assert.Error(t, p.Play(context.Background(), ""))
	assert.Error(t, p.Play(context.Background(), "/definitely/not/here.oga"))
}

func TestFromConfig(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, false)

	b, err := FromConfig(config.NotifyConfig{Backend: config.NotifyNone}, nil, term)
	require.NoError(t, err)
	assert.Same(t, term, b)

	b, err = FromConfig(config.NotifyConfig{Backend: config.NotifyDesktop, Command: "true"}, nil, term)
	require.NoError(t, err)
	require.IsType(t, Fanout{}, b)
	assert.Len(t, b.(Fanout), 2)

	b, err = FromConfig(config.NotifyConfig{Backend: config.NotifyTelegram}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Telegram{}, b)

	_, err = FromConfig(config.NotifyConfig{Backend: "pager"}, nil)
	assert.Error(t, err)
}

func TestDispatcherRespectsPermission(t *testing.T) {
	s := kvstore.NewMemory()
	perms := NewPermissions(s)
	b := &recordBackend{}
	d := NewDispatcher(config.NotifyConfig{}, perms, b, nil)

	it := reminder.Item{Kind: reminder.KindTodo, ID: "1", Title: "Stretch"}
	d.Dispatch(context.Background(), it)
	assert.Empty(t, b.sent)

	require.NoError(t, s.Set(KeyPermission, string(reminder.PermissionGranted)))
	d.Dispatch(context.Background(), it)
	require.Len(t, b.sent, 1)
	assert.Equal(t, "Stretch", b.sent[0].Title)
}
