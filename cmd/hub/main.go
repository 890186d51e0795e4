// Command hub is the personal hub: to-dos, calendar and bookmarks in a local
// store, with reminders.
//
// Usage:
//
//	hub                       # interactive shell
//	hub daemon                # headless reminder loop
//	hub permission request    # ask once for notification permission
//	hub export cal.ics        # write the calendar as iCalendar
//	hub import cal.ics        # read events from an iCalendar file
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/notexe/personal-hub/internal/config"
	"github.com/notexe/personal-hub/internal/ics"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/lists"
	"github.com/notexe/personal-hub/internal/notify"
	"github.com/notexe/personal-hub/internal/reminder"
	"github.com/notexe/personal-hub/internal/repl"
	"github.com/notexe/personal-hub/internal/scheduler"
	"github.com/notexe/personal-hub/internal/ui"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "hub",
		Usage: "Personal hub with to-dos, calendar, bookmarks and reminders.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: config.GetDefaultConfigPath(), Usage: "Path to configuration file"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: runShell,
		Commands: []*cli.Command{
			shellCommand(),
			daemonCommand(),
			permissionCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// env is what every command needs: validated config, a logger and the store.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  kvstore.Store
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if c.Bool("no-color") {
		cfg.UI.ColoredOutput = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Logger(os.Stderr)

	store, err := kvstore.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func shellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Open the interactive shell (default).",
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.store.Close()

	r, err := repl.NewREPL(e.store, e.cfg, e.logger)
	if err != nil {
		return fmt.Errorf("error creating shell: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return r.Start(ctx)
}

func daemonCommand() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Run the reminder loop without a shell, reading the store on every tick.",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.store.Close()

			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}

			var extra []notify.Backend
			if e.cfg.Notify.Backend == config.NotifyTerminal {
				extra = append(extra, notify.NewTerminal(os.Stdout, e.cfg.UI.ColoredOutput))
			}
			backend, err := notify.FromConfig(e.cfg.Notify, e.logger, extra...)
			if err != nil {
				return err
			}

			perms := notify.NewPermissions(e.store)
			if perms.Current() != reminder.PermissionGranted {
				e.logger.Warn("notifications are not allowed, reminders will only play a sound",
					"permission", perms.Current(), "hint", "run: hub permission request")
			}

			sched := scheduler.New(
				lists.StoreSource{Store: e.store, Location: loc, Logger: e.logger},
				notify.NewDispatcher(e.cfg.Notify, perms, backend, e.logger),
				scheduler.WithInterval(e.cfg.Scheduler.Interval),
				scheduler.WithClock(func() time.Time { return time.Now().In(loc) }),
				scheduler.WithLogger(e.logger),
			)

			if spec := e.cfg.Scheduler.Reset; spec != "" {
				cr, err := scheduler.ScheduleReset(sched, spec, loc)
				if err != nil {
					return err
				}
				defer cr.Stop()
				e.logger.Info("daily reset scheduled", "spec", spec)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return sched.Run(ctx)
		},
	}
}

func permissionCommand() *cli.Command {
	show := func(perms *notify.Permissions, colored bool) error {
		fmt.Println(ui.NewFormatter(colored).FormatPermission(perms.Current()))
		return nil
	}

	withPerms := func(fn func(c *cli.Context, e *env, perms *notify.Permissions) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.store.Close()
			return fn(c, e, notify.NewPermissions(e.store))
		}
	}

	return &cli.Command{
		Name:  "permission",
		Usage: "Show, request or reset the notification permission.",
		Action: withPerms(func(c *cli.Context, e *env, perms *notify.Permissions) error {
			return show(perms, e.cfg.UI.ColoredOutput)
		}),
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current answer.",
				Action: withPerms(func(c *cli.Context, e *env, perms *notify.Permissions) error {
					return show(perms, e.cfg.UI.ColoredOutput)
				}),
			},
			{
				Name:  "request",
				Usage: "Ask whether reminders may show notifications. Only asks while undecided.",
				Action: withPerms(func(c *cli.Context, e *env, perms *notify.Permissions) error {
					if _, err := perms.Request(c.Context, ui.ConfirmPrompter{Colored: e.cfg.UI.ColoredOutput}); err != nil {
						return err
					}
					return show(perms, e.cfg.UI.ColoredOutput)
				}),
			},
			{
				Name:  "reset",
				Usage: "Forget the answer so the next request asks again.",
				Action: withPerms(func(c *cli.Context, e *env, perms *notify.Permissions) error {
					if err := perms.Reset(); err != nil {
						return err
					}
					return show(perms, e.cfg.UI.ColoredOutput)
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the calendar to an iCalendar file.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("usage: hub export <file.ics>")
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.store.Close()

			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}
			events, err := lists.OpenEvents(e.store, lists.WithLocation(loc), lists.WithLogger(e.logger))
			if err != nil {
				return err
			}
			if err := ics.WriteFile(path, events.All(), loc); err != nil {
				return err
			}
			e.logger.Info("calendar exported", "file", path, "events", len(events.All()))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Add the events of an iCalendar file to the calendar.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("usage: hub import <file.ics>")
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.store.Close()

			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			parsed, err := ics.Import(f, loc, e.logger)
			if err != nil {
				return err
			}
			events, err := lists.OpenEvents(e.store, lists.WithLocation(loc), lists.WithLogger(e.logger))
			if err != nil {
				return err
			}
			n, err := events.Import(parsed)
			if err != nil {
				return err
			}
			e.logger.Info("calendar imported", "file", path, "events", n)
			return nil
		},
	}
}
