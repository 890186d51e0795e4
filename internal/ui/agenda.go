package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/notexe/personal-hub/internal/hub"
)

// Agenda is what the day view shows.
type Agenda struct {
	Now      time.Time
	Todos    []hub.Todo
	Today    []hub.CalendarEvent
	Upcoming []hub.CalendarEvent
}

// Markdown builds the agenda as a markdown document.
func (a Agenda) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", a.Now.Format("Monday, 2 January"))

	sb.WriteString("## Today\n\n")
	if len(a.Today) == 0 {
		sb.WriteString("_Nothing scheduled._\n\n")
	}
	for _, e := range a.Today {
		fmt.Fprintf(&sb, "- **%s** %s", e.Time, escape(e.Title))
		if place := eventPlace(e); place != "" {
			fmt.Fprintf(&sb, " · %s", escape(place))
		}
		if e.RemindMe {
			fmt.Fprintf(&sb, " ⏰ %dm", e.Lead())
		}
		sb.WriteString("\n")
	}
	if len(a.Today) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## To-do\n\n")
	open := 0
	for _, t := range a.Todos {
		if t.Category != hub.CategoryToday || t.Completed {
			continue
		}
		open++
		fmt.Fprintf(&sb, "- %s", escape(t.Text))
		if t.RemindMe {
			fmt.Fprintf(&sb, " ⏰ %s", t.ReminderTime)
		}
		sb.WriteString("\n")
	}
	if open == 0 {
		sb.WriteString("_All done._\n")
	}
	sb.WriteString("\n")

	if len(a.Upcoming) > 0 {
		sb.WriteString("## Coming up\n\n")
		for i, e := range a.Upcoming {
			if i == 5 {
				fmt.Fprintf(&sb, "- _and %d more_\n", len(a.Upcoming)-i)
				break
			}
			fmt.Fprintf(&sb, "- %s %s %s\n", e.Date, e.Time, escape(e.Title))
		}
	}
	return sb.String()
}

var mdEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// RenderAgenda renders the agenda for the terminal. Plain output uses the
// no-color style; the raw markdown is the fallback when rendering fails.
func (f *Formatter) RenderAgenda(a Agenda) string {
	md := a.Markdown()

	style := glamour.WithStandardStyle("notty")
	if f.colored {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
