// Package mcpserver exposes the hub's lists over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/lists"
	"github.com/notexe/personal-hub/internal/reminder"
)

const (
	serverName    = "personal-hub"
	serverVersion = "1.0.0"
)

// Server is the MCP server for the hub's to-dos, events and bookmarks.
type Server struct {
	mcpServer *server.MCPServer
	hub       *lists.Hub
	now       func() time.Time
}

// NewServer creates a server over h. now is used for due_reminders and the
// today filter; nil means time.Now.
func NewServer(h *lists.Hub, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{hub: h, now: now}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_todos",
			mcp.WithDescription("List to-dos, optionally filtered by category"),
			mcp.WithString("category", mcp.Description("Filter by category: today, tomorrow, this_week")),
		),
		s.handleListTodos,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_todo",
			mcp.WithDescription("Add a to-do. Reminders start switched off"),
			mcp.WithString("text", mcp.Required(), mcp.Description("To-do text")),
			mcp.WithString("category", mcp.Description("today, tomorrow or this_week (default: today)")),
		),
		s.handleAddTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_todo",
			mcp.WithDescription("Toggle a to-do's completed flag"),
			mcp.WithString("id", mcp.Required(), mcp.Description("To-do id or unique id prefix")),
		),
		s.handleCompleteTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_todo",
			mcp.WithDescription("Delete a to-do permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("To-do id or unique id prefix")),
		),
		s.handleDeleteTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_todo_reminder",
			mcp.WithDescription("Set a daily reminder time for a to-do and switch its reminder on"),
			mcp.WithString("id", mcp.Required(), mcp.Description("To-do id or unique id prefix")),
			mcp.WithString("time", mcp.Required(), mcp.Description("24-hour time HH:MM")),
		),
		s.handleSetTodoReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("clear_todo_reminder",
			mcp.WithDescription("Switch a to-do's reminder off"),
			mcp.WithString("id", mcp.Required(), mcp.Description("To-do id or unique id prefix")),
		),
		s.handleClearTodoReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_events",
			mcp.WithDescription("List calendar events"),
			mcp.WithString("range", mcp.Description("today, upcoming, or empty for all")),
		),
		s.handleListEvents,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_event",
			mcp.WithDescription("Add a calendar event"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Date YYYY-MM-DD")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Start time HH:MM")),
			mcp.WithString("person", mcp.Description("Who the event is with")),
			mcp.WithString("location", mcp.Description("Where it takes place")),
			mcp.WithString("link", mcp.Description("Meeting link")),
			mcp.WithString("phone", mcp.Description("Phone number")),
			mcp.WithString("description", mcp.Description("Notes")),
			mcp.WithBoolean("remind", mcp.Description("Switch the reminder on")),
			mcp.WithNumber("minutes_before", mcp.Description("Reminder lead in minutes (default: 15)")),
		),
		s.handleAddEvent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_event",
			mcp.WithDescription("Delete a calendar event"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Event id or unique id prefix")),
		),
		s.handleDeleteEvent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_event_reminder",
			mcp.WithDescription("Switch an event's reminder on with the given lead, or off"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Event id or unique id prefix")),
			mcp.WithNumber("minutes_before", mcp.Description("Reminder lead in minutes (default: 15)")),
			mcp.WithBoolean("off", mcp.Description("Switch the reminder off instead")),
		),
		s.handleSetEventReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("due_reminders",
			mcp.WithDescription("Preview the to-dos and events whose reminder is due right now"),
		),
		s.handleDueReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_bookmarks",
			mcp.WithDescription("List bookmarks, optionally filtered by category"),
			mcp.WithString("category", mcp.Description("Bookmark category")),
		),
		s.handleListBookmarks,
	)
}

func jsonResult(v any, empty string, n int) *mcp.CallToolResult {
	if n == 0 {
		return mcp.NewToolResultText(empty)
	}
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output))
}

func (s *Server) handleListTodos(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")

	todos := s.hub.Todos.All()
	if category != "" {
		c, err := hub.ParseCategory(category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		todos = s.hub.Todos.ByCategory(c)
	}
	return jsonResult(todos, "No to-dos found.", len(todos)), nil
}

func (s *Server) handleAddTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	category := hub.CategoryToday
	if raw := req.GetString("category", ""); raw != "" {
		c, err := hub.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		category = c
	}

	added, err := s.hub.Todos.Add(text, category)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add to-do: %v", err)), nil
	}
	return jsonResult(added, "", 1), nil
}

func (s *Server) handleCompleteTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := s.hub.Todos.Toggle(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update to-do: %v", err)), nil
	}

	state := "open"
	if t.Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("To-do %q marked as %s.", t.Text, state)), nil
}

func (s *Server) handleDeleteTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := s.hub.Todos.Delete(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete to-do: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("To-do %q deleted.", t.Text)), nil
}

func (s *Server) handleSetTodoReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	clock := req.GetString("time", "")
	if id == "" || clock == "" {
		return mcp.NewToolResultError("id and time are required"), nil
	}

	t, err := s.hub.Todos.SetReminder(id, clock)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder for %q set to %s daily.", t.Text, t.ReminderTime)), nil
}

func (s *Server) handleClearTodoReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := s.hub.Todos.ClearReminder(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder for %q switched off.", t.Text)), nil
}

func (s *Server) handleListEvents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var events []hub.CalendarEvent
	switch r := req.GetString("range", ""); r {
	case "":
		events = s.hub.Events.All()
	case "today":
		events = s.hub.Events.Today(s.now())
	case "upcoming":
		events = s.hub.Events.Upcoming(s.now())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown range %q (use today or upcoming)", r)), nil
	}
	return jsonResult(events, "No events found.", len(events)), nil
}

func (s *Server) handleAddEvent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e := hub.CalendarEvent{
		Title:       req.GetString("title", ""),
		Date:        req.GetString("date", ""),
		Time:        req.GetString("time", ""),
		Person:      req.GetString("person", ""),
		Location:    req.GetString("location", ""),
		Link:        req.GetString("link", ""),
		Phone:       req.GetString("phone", ""),
		Description: req.GetString("description", ""),
		RemindMe:    req.GetBool("remind", false),
	}
	if lead := req.GetFloat("minutes_before", -1); lead >= 0 {
		e.ReminderMinutes = hub.Minutes(int(lead))
	}

	added, err := s.hub.Events.Add(e)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add event: %v", err)), nil
	}
	return jsonResult(added, "", 1), nil
}

func (s *Server) handleDeleteEvent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	e, err := s.hub.Events.Delete(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %q deleted.", e.Title)), nil
}

func (s *Server) handleSetEventReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if req.GetBool("off", false) {
		e, err := s.hub.Events.ClearReminder(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update event: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Reminder for %q switched off.", e.Title)), nil
	}

	lead := int(req.GetFloat("minutes_before", hub.DefaultReminderMinutes))
	e, err := s.hub.Events.SetLead(id, lead)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder for %q set %d minutes before %s %s.", e.Title, e.Lead(), e.Date, e.Time)), nil
}

type dueItem struct {
	Kind  reminder.Kind `json:"kind"`
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Body  string        `json:"body"`
}

func (s *Server) handleDueReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	due := reminder.Due(s.hub.Reminders(), s.now())

	out := make([]dueItem, 0, len(due))
	for _, it := range due {
		out = append(out, dueItem{Kind: it.Kind, ID: it.ID, Title: it.Title, Body: it.Body})
	}
	return jsonResult(out, "No due reminders.", len(out)), nil
}

func (s *Server) handleListBookmarks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookmarks := s.hub.Bookmarks.All()
	if category := req.GetString("category", ""); category != "" {
		bookmarks = s.hub.Bookmarks.ByCategory(category)
	}
	return jsonResult(bookmarks, "No bookmarks found.", len(bookmarks)), nil
}
