package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	ReminderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")) // Orange

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple
)

// idWidth is how much of an id is shown; any unique prefix is accepted back.
const idWidth = 8

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, msg)
}

// ShortID trims an id for display.
func ShortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

// FormatTodos lists to-dos grouped by category in display order.
func (f *Formatter) FormatTodos(todos []hub.Todo) string {
	if len(todos) == 0 {
		return f.render(DimStyle, "No to-dos.")
	}

	var sb strings.Builder
	for _, c := range hub.Categories {
		var rows []string
		for _, t := range todos {
			if t.Category == c {
				rows = append(rows, f.todoRow(t))
			}
		}
		if len(rows) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.render(HeaderStyle, c.Label()))
		sb.WriteString("\n")
		sb.WriteString(strings.Join(rows, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *Formatter) todoRow(t hub.Todo) string {
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = f.render(DimStyle, text)
	}

	row := fmt.Sprintf("  %s %s %s", f.render(DimStyle, ShortID(t.ID)), box, text)
	if t.RemindMe {
		row += " " + f.render(ReminderStyle, "⏰ "+t.ReminderTime)
	} else if t.ReminderTime != "" {
		row += " " + f.render(DimStyle, "("+t.ReminderTime+" off)")
	}
	return row
}

// FormatEvents lists events with their start relative to now.
func (f *Formatter) FormatEvents(events []hub.CalendarEvent, now time.Time, loc *time.Location) string {
	if len(events) == 0 {
		return f.render(DimStyle, "No events.")
	}

	rows := make([]string, 0, len(events))
	for _, e := range events {
		when := e.Date + " " + e.Time
		if start, ok := e.Start(loc); ok {
			when += " " + f.render(DimStyle, "("+humanize.RelTime(start, now, "ago", "from now")+")")
		}

		row := fmt.Sprintf("  %s %s  %s", f.render(DimStyle, ShortID(e.ID)), when, e.Title)
		if place := eventPlace(e); place != "" {
			row += f.render(AccentStyle, " · "+place)
		}
		if e.RemindMe {
			row += " " + f.render(ReminderStyle, fmt.Sprintf("⏰ %dm before", e.Lead()))
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n") + "\n"
}

func eventPlace(e hub.CalendarEvent) string {
	switch {
	case e.Location != "":
		return e.Location
	case e.Person != "":
		return e.Person
	}
	return ""
}

// FormatBookmarks lists bookmarks with their click counts.
func (f *Formatter) FormatBookmarks(bookmarks []hub.Bookmark) string {
	if len(bookmarks) == 0 {
		return f.render(DimStyle, "No bookmarks.")
	}

	rows := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		rows = append(rows, fmt.Sprintf("  %s %s %s %s",
			f.render(DimStyle, ShortID(b.ID)),
			b.Title,
			f.render(AccentStyle, b.URL),
			f.render(DimStyle, fmt.Sprintf("[%s, %s]", b.Category, humanize.Comma(int64(b.ClickCount))+" visits")),
		))
	}
	return strings.Join(rows, "\n") + "\n"
}

// FormatPermission describes the notification permission state.
func (f *Formatter) FormatPermission(p reminder.Permission) string {
	switch p {
	case reminder.PermissionGranted:
		return f.render(SuccessStyle, "Notifications allowed.")
	case reminder.PermissionDenied:
		return f.render(ErrorStyle, "Notifications blocked.") + " Reminders only play a sound. Use /permission reset to ask again."
	default:
		return f.render(InfoStyle, "Notifications not decided yet.") + " Use /permission request."
	}
}

func (f *Formatter) FormatWelcome(openTodos, todayEvents int) string {
	title := "Personal Hub"
	summary := fmt.Sprintf("%d open %s, %d %s today",
		openTodos, plural(openTodos, "to-do", "to-dos"),
		todayEvents, plural(todayEvents, "event", "events"))
	help := "Type /help for commands"

	if f.colored {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
		content := strings.Join([]string{
			HeaderStyle.Render(title),
			lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Render(summary),
			"",
			lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(help),
		}, "\n")
		return "\n" + box.Render(content) + "\n\n"
	}

	return strings.Join([]string{"", title, summary, help, "", ""}, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type helpEntry struct{ cmd, desc string }

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"To-dos", []helpEntry{
		{"/todos", "List to-dos"},
		{"/add [today|tomorrow|week] <text>", "Add a to-do"},
		{"/done <id>", "Toggle completed"},
		{"/del <id>", "Delete a to-do"},
		{"/move <id> <category>", "Move to another category"},
		{"/remind <id> <HH:MM>", "Daily reminder at a time"},
		{"/remind <id> off|on", "Switch a reminder off or on"},
	}},
	{"Calendar", []helpEntry{
		{"/events [today|upcoming]", "List events"},
		{"/event <YYYY-MM-DD> <HH:MM> <title>", "Add an event"},
		{"/unevent <id>", "Delete an event"},
		{"/lead <id> <minutes>|off", "Event reminder lead"},
		{"/agenda", "Today at a glance"},
		{"/export <file.ics>", "Export the calendar"},
		{"/import <file.ics>", "Import events"},
	}},
	{"Bookmarks", []helpEntry{
		{"/links [category]", "List bookmarks"},
		{"/link <url> <title> [#category]", "Add a bookmark"},
		{"/open <id>", "Count a visit and show the URL"},
		{"/unlink <id>", "Delete a bookmark"},
	}},
	{"General", []helpEntry{
		{"/permission [request|reset]", "Notification permission"},
		{"/help", "Show this help"},
		{"/quit", "Exit"},
	}},
}

func (f *Formatter) FormatHelp() string {
	lines := []string{"", f.render(HeaderStyle, "Commands"), ""}
	for _, s := range helpSections {
		lines = append(lines, f.render(AccentStyle, s.title))
		for _, e := range s.entries {
			if f.colored {
				lines = append(lines, "  "+SuccessStyle.UnsetBold().Render(e.cmd)+" "+e.desc)
			} else {
				lines = append(lines, fmt.Sprintf("  %-36s - %s", e.cmd, e.desc))
			}
		}
		lines = append(lines, "")
	}
	lines = append(lines, f.render(DimStyle, "  Ids can be shortened to any unique prefix. Ctrl+D to exit."), "")
	return strings.Join(lines, "\n")
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("hub") + arrowStyle.Render(" > ")
	}
	return "hub > "
}
