package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// CommandPlayer plays a sound file with an external player and does not wait
// for it to finish.
type CommandPlayer struct {
	// Command overrides the player binary; empty picks one for the OS.
	Command string
}

func (p CommandPlayer) Play(_ context.Context, resource string) error {
	if resource == "" {
		return errors.New("no sound resource configured")
	}
	if _, err := os.Stat(resource); err != nil {
		return fmt.Errorf("sound resource: %w", err)
	}

	bin := p.Command
	if bin == "" {
		bin = defaultPlayer()
	}
	if bin == "" {
		return fmt.Errorf("no sound player known for %s", runtime.GOOS)
	}

	// Not bound to the caller's context: playback outlives the dispatch.
	cmd := exec.Command(bin, resource)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", bin, err)
	}
	go cmd.Wait()
	return nil
}

func defaultPlayer() string {
	switch runtime.GOOS {
	case "darwin":
		return "afplay"
	case "linux":
		return "paplay"
	}
	return ""
}
