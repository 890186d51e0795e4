package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/notexe/personal-hub/internal/reminder"
)

// Desktop raises OS notifications through notify-send or osascript.
type Desktop struct {
	// Command overrides the notifier binary; empty picks one for the OS.
	Command string
}

func (d Desktop) Send(_ context.Context, n reminder.Notification) error {
	cmd, err := d.command(n)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	go cmd.Wait()
	return nil
}

func (d Desktop) command(n reminder.Notification) (*exec.Cmd, error) {
	goos := runtime.GOOS
	if d.Command != "" {
		goos = "custom"
	}

	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(n.Body), strconv.Quote(n.Title))
		return exec.Command("osascript", "-e", script), nil
	case "linux", "freebsd", "openbsd":
		args := []string{"--app-name=personal-hub"}
		if n.Icon != "" {
			args = append(args, "--icon="+n.Icon)
		}
		args = append(args, n.Title, n.Body)
		return exec.Command("notify-send", args...), nil
	case "custom":
		return exec.Command(d.Command, n.Title, n.Body), nil
	default:
		return nil, fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
	}
}
