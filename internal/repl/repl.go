package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chzyer/readline"
	"github.com/robfig/cron/v3"

	"github.com/notexe/personal-hub/internal/config"
	"github.com/notexe/personal-hub/internal/kvstore"
	"github.com/notexe/personal-hub/internal/lists"
	"github.com/notexe/personal-hub/internal/notify"
	"github.com/notexe/personal-hub/internal/reminder"
	"github.com/notexe/personal-hub/internal/scheduler"
	"github.com/notexe/personal-hub/internal/ui"
)

// REPL is the interactive shell. It owns the lists and runs the reminder
// scheduler for as long as it is open.
type REPL struct {
	hub       *lists.Hub
	perms     *notify.Permissions
	sched     *scheduler.Scheduler
	config    *config.Config
	loc       *time.Location
	now       func() time.Time
	rl        *readline.Instance
	formatter *ui.Formatter
	prompter  notify.Prompter
	logger    *slog.Logger
	out       io.Writer
}

func NewREPL(store kvstore.Store, cfg *config.Config, logger *slog.Logger) (*REPL, error) {
	rl, err := setupReadline(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	r, err := newREPL(store, cfg, logger, rl.Stdout())
	if err != nil {
		rl.Close()
		return nil, err
	}
	r.rl = rl
	rl.SetPrompt(r.formatter.FormatPrompt())
	return r, nil
}

// newREPL wires everything except the line editor.
func newREPL(store kvstore.Store, cfg *config.Config, logger *slog.Logger, out io.Writer) (*REPL, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now := func() time.Time { return time.Now().In(loc) }

	backend, err := notify.FromConfig(cfg.Notify, logger, notify.NewTerminal(out, cfg.UI.ColoredOutput))
	if err != nil {
		return nil, err
	}
	perms := notify.NewPermissions(store)

	r := &REPL{
		perms:     perms,
		config:    cfg,
		loc:       loc,
		now:       now,
		formatter: ui.NewFormatter(cfg.UI.ColoredOutput),
		prompter:  ui.ConfirmPrompter{Colored: cfg.UI.ColoredOutput},
		logger:    logger,
		out:       out,
	}

	r.sched = scheduler.New(
		scheduler.SourceFunc(func() []reminder.Item { return r.hub.Reminders() }),
		notify.NewDispatcher(cfg.Notify, perms, backend, logger),
		scheduler.WithInterval(cfg.Scheduler.Interval),
		scheduler.WithClock(now),
		scheduler.WithLogger(logger),
	)

	r.hub, err = lists.OpenHub(store,
		lists.WithRearmer(r.sched),
		lists.WithClock(now),
		lists.WithLocation(loc),
		lists.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open lists: %w", err)
	}
	return r, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	if err := r.sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminders: %w", err)
	}
	defer r.sched.Stop()

	if spec := r.config.Scheduler.Reset; spec != "" {
		c, err := scheduler.ScheduleReset(r.sched, spec, r.loc)
		if err != nil {
			return err
		}
		defer stopCron(c)
	}

	r.displayWelcome()
	if r.perms.Current() == reminder.PermissionDefault {
		fmt.Fprintln(r.out, r.formatter.FormatPermission(reminder.PermissionDefault))
	}

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		command, args := r.parseCommand(input)
		if command == "/quit" || command == "/exit" || command == "/q" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func stopCron(c *cron.Cron) {
	<-c.Stop().Done()
}
