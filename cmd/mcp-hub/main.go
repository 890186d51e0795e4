// Command mcp-hub provides an MCP server over the personal hub's lists.
//
// This server provides tools for listing and editing to-dos, events and
// their reminders, stored in the same place as the hub shell uses.
//
// Usage:
//
//	./mcp-hub          # Start MCP server (stdio)
//	./mcp-hub --help   # Show help
//
// Environment:
//
//	HUB_CONFIG  Path to the hub config file (default: ~/.personal-hub/config.yaml)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/personal-hub/internal/config"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/lists"
	"github.com/notexe/personal-hub/internal/mcpserver"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	_ = godotenv.Load()

	configPath := os.Getenv("HUB_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	// stdout carries the protocol.
	logger := cfg.Logger(os.Stderr)

	store, err := kvstore.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	now := func() time.Time { return time.Now().In(loc) }
	h, err := lists.OpenHub(store,
		lists.WithClock(now),
		lists.WithLocation(loc),
		lists.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open lists: %v\n", err)
		os.Exit(1)
	}

	s := mcpserver.NewServer(h, now)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Hub Server - to-dos, calendar and reminders via MCP protocol

USAGE:
    mcp-hub          Start MCP server (communicates via stdio)
    mcp-hub --help   Show this help

ENVIRONMENT:
    HUB_CONFIG  Path to the hub config file
                Default: ~/.personal-hub/config.yaml
    HUB_*       Config overrides, e.g. HUB_STORAGE_PATH

TOOLS:
    list_todos           List to-dos (optional category filter)
    add_todo             Add a to-do (text, category)
    complete_todo        Toggle a to-do's completed flag
    delete_todo          Delete a to-do
    set_todo_reminder    Daily reminder at HH:MM
    clear_todo_reminder  Switch a to-do's reminder off
    list_events          List events (all, today, upcoming)
    add_event            Add an event (title, date, time, ...)
    delete_event         Delete an event
    set_event_reminder   Reminder lead in minutes, or off
    due_reminders        Preview reminders due right now
    list_bookmarks       List bookmarks (optional category filter)

CONFIGURATION:
    Add to your MCP client config:
    {
      "mcpServers": {
        "hub": {
          "command": "/path/to/mcp-hub",
          "args": []
        }
      }
    }`)
}
