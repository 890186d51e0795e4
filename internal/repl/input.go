package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/notexe/personal-hub/internal/config"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// parseCommand splits "/cmd args". Bare text is shorthand for /add.
func (r *REPL) parseCommand(input string) (string, string) {
	if !strings.HasPrefix(input, "/") {
		return "/add", input
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return command, args
}

func setupReadline(cfg *config.Config) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "hub > ",
		HistoryFile:         cfg.UI.HistoryFile,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		AutoComplete:        completer,
		FuncFilterInputRune: filterInput,
	})

	return rl, err
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("/todos",
		readline.PcItem("today"), readline.PcItem("tomorrow"), readline.PcItem("week")),
	readline.PcItem("/add",
		readline.PcItem("today"), readline.PcItem("tomorrow"), readline.PcItem("week")),
	readline.PcItem("/done"),
	readline.PcItem("/del"),
	readline.PcItem("/move"),
	readline.PcItem("/remind"),
	readline.PcItem("/events",
		readline.PcItem("today"), readline.PcItem("upcoming")),
	readline.PcItem("/event"),
	readline.PcItem("/unevent"),
	readline.PcItem("/lead"),
	readline.PcItem("/agenda"),
	readline.PcItem("/links"),
	readline.PcItem("/link"),
	readline.PcItem("/open"),
	readline.PcItem("/unlink"),
	readline.PcItem("/export"),
	readline.PcItem("/import"),
	readline.PcItem("/permission",
		readline.PcItem("request"), readline.PcItem("reset")),
	readline.PcItem("/help"),
	readline.PcItem("/quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
