package repl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/ics"
	"github.com/notexe/personal-hub/internal/ui"
)

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/todos", "/t":
		return r.handleTodos(args)
	case "/add", "/a":
		return r.handleAdd(args)
	case "/done", "/d":
		return r.handleDone(args)
	case "/del":
		return r.handleDelete(args)
	case "/move":
		return r.handleMove(args)
	case "/remind", "/r":
		return r.handleRemind(args)

	case "/events", "/e":
		return r.handleEvents(args)
	case "/event":
		return r.handleAddEvent(args)
	case "/unevent":
		return r.handleDeleteEvent(args)
	case "/lead":
		return r.handleLead(args)
	case "/agenda":
		r.displayAgenda()
		return nil
	case "/export":
		return r.handleExport(args)
	case "/import":
		return r.handleImport(args)

	case "/links", "/l":
		return r.handleLinks(args)
	case "/link":
		return r.handleAddLink(args)
	case "/open":
		return r.handleOpen(args)
	case "/unlink":
		return r.handleDeleteLink(args)

	case "/permission", "/perm":
		return r.handlePermission(ctx, args)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

// categoryAlias reads an optional leading category word.
func categoryAlias(word string) (hub.TodoCategory, bool) {
	c, err := hub.ParseCategory(word)
	return c, err == nil
}

func (r *REPL) handleTodos(args string) error {
	if args == "" {
		r.displayTodos(r.hub.Todos.All())
		return nil
	}
	c, err := hub.ParseCategory(args)
	if err != nil {
		return err
	}
	r.displayTodos(r.hub.Todos.ByCategory(c))
	return nil
}

func (r *REPL) handleAdd(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /add [today|tomorrow|week] <text>")
	}

	category := hub.CategoryToday
	if first, rest, ok := strings.Cut(args, " "); ok {
		if c, ok := categoryAlias(first); ok {
			category, args = c, rest
		}
	}

	t, err := r.hub.Todos.Add(args, category)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Added %s to %s.", ui.ShortID(t.ID), t.Category.Label()))
	return nil
}

func (r *REPL) handleDone(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /done <id>")
	}
	t, err := r.hub.Todos.Toggle(args)
	if err != nil {
		return err
	}
	if t.Completed {
		r.displaySystem(fmt.Sprintf("Completed %q.", t.Text))
	} else {
		r.displaySystem(fmt.Sprintf("Reopened %q.", t.Text))
	}
	return nil
}

func (r *REPL) handleDelete(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /del <id>")
	}
	t, err := r.hub.Todos.Delete(args)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Deleted %q.", t.Text))
	return nil
}

func (r *REPL) handleMove(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: /move <id> <today|tomorrow|week>")
	}
	c, err := hub.ParseCategory(parts[1])
	if err != nil {
		return err
	}
	t, err := r.hub.Todos.MoveToCategory(parts[0], c)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Moved %q to %s.", t.Text, c.Label()))
	return nil
}

func (r *REPL) handleRemind(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: /remind <id> <HH:MM|on|off>")
	}

	var (
		t   hub.Todo
		err error
	)
	switch strings.ToLower(parts[1]) {
	case "off":
		t, err = r.hub.Todos.ClearReminder(parts[0])
	case "on":
		if t, err = r.hub.Todos.Find(parts[0]); err == nil && !t.RemindMe {
			t, err = r.hub.Todos.ToggleReminder(t.ID)
		}
	default:
		t, err = r.hub.Todos.SetReminder(parts[0], parts[1])
	}
	if err != nil {
		return err
	}

	if t.RemindMe {
		r.displaySystem(fmt.Sprintf("Reminding %q daily at %s.", t.Text, t.ReminderTime))
	} else {
		r.displaySystem(fmt.Sprintf("Reminder for %q is off.", t.Text))
	}
	return nil
}

func (r *REPL) handleEvents(args string) error {
	switch args {
	case "":
		r.displayEvents(r.hub.Events.All())
	case "today":
		r.displayEvents(r.hub.Events.Today(r.now()))
	case "upcoming":
		r.displayEvents(r.hub.Events.Upcoming(r.now()))
	default:
		return fmt.Errorf("usage: /events [today|upcoming]")
	}
	return nil
}

func (r *REPL) handleAddEvent(args string) error {
	parts := strings.SplitN(args, " ", 3)
	if len(parts) != 3 {
		return fmt.Errorf("usage: /event <YYYY-MM-DD> <HH:MM> <title>")
	}

	e, err := r.hub.Events.Add(hub.CalendarEvent{Date: parts[0], Time: parts[1], Title: parts[2]})
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Added %s on %s at %s. Use /lead %s <minutes> for a reminder.",
		e.Title, e.Date, e.Time, ui.ShortID(e.ID)))
	return nil
}

func (r *REPL) handleDeleteEvent(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /unevent <id>")
	}
	e, err := r.hub.Events.Delete(args)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Deleted %q.", e.Title))
	return nil
}

func (r *REPL) handleLead(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: /lead <id> <minutes|off>")
	}

	if strings.EqualFold(parts[1], "off") {
		e, err := r.hub.Events.ClearReminder(parts[0])
		if err != nil {
			return err
		}
		r.displaySystem(fmt.Sprintf("Reminder for %q is off.", e.Title))
		return nil
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("lead must be a number of minutes: %w", err)
	}
	e, err := r.hub.Events.SetLead(parts[0], minutes)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Reminding %d minutes before %q.", e.Lead(), e.Title))
	return nil
}

func (r *REPL) displayAgenda() {
	now := r.now()
	fmt.Fprintln(r.out, r.formatter.RenderAgenda(ui.Agenda{
		Now:      now,
		Todos:    r.hub.Todos.All(),
		Today:    r.hub.Events.Today(now),
		Upcoming: r.hub.Events.Upcoming(now),
	}))
}

func (r *REPL) handleExport(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /export <file.ics>")
	}
	events := r.hub.Events.All()
	if err := ics.WriteFile(args, events, r.loc); err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Exported %d events to %s.", len(events), args))
	return nil
}

func (r *REPL) handleImport(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /import <file.ics>")
	}
	f, err := os.Open(args)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args, err)
	}
	defer f.Close()

	events, err := ics.Import(f, r.loc, r.logger)
	if err != nil {
		return err
	}
	n, err := r.hub.Events.Import(events)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Imported %d events.", n))
	return nil
}

func (r *REPL) handleLinks(args string) error {
	if args == "" {
		r.displayBookmarks(r.hub.Bookmarks.All())
		return nil
	}
	r.displayBookmarks(r.hub.Bookmarks.ByCategory(args))
	return nil
}

// handleAddLink reads "<url> <title words> [#category]".
func (r *REPL) handleAddLink(args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return fmt.Errorf("usage: /link <url> <title> [#category]")
	}

	url, rest := fields[0], fields[1:]
	category := ""
	if last := rest[len(rest)-1]; strings.HasPrefix(last, "#") && len(rest) > 1 {
		category = strings.TrimPrefix(last, "#")
		rest = rest[:len(rest)-1]
	}

	b, err := r.hub.Bookmarks.Add(strings.Join(rest, " "), url, category)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Saved %s in %s.", b.URL, b.Category))
	return nil
}

func (r *REPL) handleOpen(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /open <id>")
	}
	b, err := r.hub.Bookmarks.Visit(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, b.URL)
	return nil
}

func (r *REPL) handleDeleteLink(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /unlink <id>")
	}
	b, err := r.hub.Bookmarks.Delete(args)
	if err != nil {
		return err
	}
	r.displaySystem(fmt.Sprintf("Deleted %q.", b.Title))
	return nil
}

func (r *REPL) handlePermission(ctx context.Context, args string) error {
	switch args {
	case "", "show":
	case "request":
		if _, err := r.perms.Request(ctx, r.prompter); err != nil {
			return err
		}
	case "reset":
		if err := r.perms.Reset(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("usage: /permission [request|reset]")
	}
	fmt.Fprintln(r.out, r.formatter.FormatPermission(r.perms.Current()))
	return nil
}
