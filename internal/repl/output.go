package repl

import (
	"fmt"

	"github.com/notexe/personal-hub/internal/hub"
)

func (r *REPL) displayError(err error) {
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	open := 0
	for _, t := range r.hub.Todos.All() {
		if !t.Completed {
			open++
		}
	}
	fmt.Fprint(r.out, r.formatter.FormatWelcome(open, len(r.hub.Events.Today(r.now()))))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySystem(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSystem(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayTodos(todos []hub.Todo) {
	fmt.Fprintln(r.out, r.formatter.FormatTodos(todos))
}

func (r *REPL) displayEvents(events []hub.CalendarEvent) {
	fmt.Fprintln(r.out, r.formatter.FormatEvents(events, r.now(), r.loc))
}

func (r *REPL) displayBookmarks(bookmarks []hub.Bookmark) {
	fmt.Fprintln(r.out, r.formatter.FormatBookmarks(bookmarks))
}
