package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/personal-hub/internal/reminder"
)

var (
	alertTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true)
	alertBodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Terminal writes alerts to an interactive terminal, ringing the bell.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool
}

func NewTerminal(w io.Writer, colored bool) *Terminal {
	return &Terminal{w: w, colored: colored}
}

func (t *Terminal) Send(_ context.Context, n reminder.Notification) error {
	title, body := "⏰ "+n.Title, n.Body
	if t.colored {
		title = alertTitleStyle.Render(title)
		body = alertBodyStyle.Render(body)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "\a\r\033[K%s  %s\n", title, body)
	return err
}
