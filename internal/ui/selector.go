package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user backs out of a menu.
var ErrCancelled = errors.New("cancelled")

// SelectorOption represents a single option in the selector
type SelectorOption struct {
	Label       string
	Description string
}

// Selector provides an arrow-key navigable menu. When the input is not a
// terminal it falls back to a numbered list.
type Selector struct {
	question string
	options  []SelectorOption
	selected int
	colored  bool
	in       io.Reader
	out      io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a selector reading stdin and writing stdout.
func NewSelector(question string, options []SelectorOption, colored bool) *Selector {
	return &Selector{
		question: question,
		options:  options,
		colored:  colored,
		in:       os.Stdin,
		out:      os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// WithIO swaps the streams the selector talks to.
func (s *Selector) WithIO(in io.Reader, out io.Writer) *Selector {
	s.in, s.out = in, out
	return s
}

// Run displays the selector and returns the chosen label.
func (s *Selector) Run() (string, error) {
	if len(s.options) == 0 {
		return "", errors.New("selector has no options")
	}

	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.runSimple()
	}
	fd := int(f.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple()
	}

	cleanup := func() {
		term.Restore(fd, oldState)
		fmt.Fprint(s.out, "\033[?25h") // Show cursor
	}
	defer cleanup()

	fmt.Fprint(s.out, "\033[?25l") // Hide cursor

	totalLines := len(s.options) + 3
	s.printMenu()

	reader := bufio.NewReader(s.in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}

		done := false
		switch b {
		case 13, 10, ' ': // Enter
			done = true
		case 3, 'q': // Ctrl+C
			s.clearMenu(totalLines)
			return "", ErrCancelled
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A': // Up
					s.moveUp()
				case 'B': // Down
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				if idx := int(b - '1'); idx < len(s.options) {
					s.selected = idx
					done = true
				}
			}
		}

		s.clearMenu(totalLines)
		if done {
			return s.options[s.selected].Label, nil
		}
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	if s.colored {
		sb.WriteString(s.questionStyle.Render(s.question))
	} else {
		sb.WriteString(s.question)
	}
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select"
	if s.colored {
		sb.WriteString(s.hintStyle.Render(hint))
	} else {
		sb.WriteString(hint)
	}
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}

		switch {
		case !s.colored:
			sb.WriteString(cursor + label)
		case i == s.selected:
			sb.WriteString(s.cursorStyle.Render(cursor))
			sb.WriteString(s.selectedStyle.Render(label))
		default:
			sb.WriteString(s.dimStyle.Render(cursor))
			sb.WriteString(s.optionStyle.Render(label))
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Fprint(s.out, "\033[A\033[2K\r")
	}
}

func (s *Selector) runSimple() (string, error) {
	fmt.Fprintln(s.out, s.question)
	for i, opt := range s.options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		fmt.Fprintf(s.out, "  [%d] %s\n", i+1, label)
	}
	fmt.Fprint(s.out, "Enter number: ")

	reader := bufio.NewReader(s.in)
	input, err := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if err != nil && input == "" {
		return "", ErrCancelled
	}

	if len(input) == 1 && input[0] >= '1' && input[0] <= '9' {
		if idx := int(input[0] - '1'); idx < len(s.options) {
			return s.options[idx].Label, nil
		}
	}
	return "", fmt.Errorf("no option %q", input)
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

// ConfirmPrompter answers yes/no questions through a Selector.
type ConfirmPrompter struct {
	Colored bool
	In      io.Reader
	Out     io.Writer
}

const (
	labelAllow = "Allow"
	labelBlock = "Block"
)

func (p ConfirmPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s := NewSelector(question, []SelectorOption{
		{Label: labelAllow, Description: "show a desktop notification with each reminder"},
		{Label: labelBlock, Description: "only play the reminder sound"},
	}, p.Colored)
	if p.In != nil && p.Out != nil {
		s.WithIO(p.In, p.Out)
	}

	choice, err := s.Run()
	if err != nil {
		return false, err
	}
	return choice == labelAllow, nil
}
