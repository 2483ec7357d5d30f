// Package tui asks the user for input, with bubbletea prompts on a
// terminal and a plain line reader otherwise.
package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter asks questions.
type Prompter interface {
	// Ask returns the answer, or def when the answer is empty.
	Ask(label, def string) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// Console is the Prompter used by the CLI.
type Console struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
}

var _ Prompter = (*Console)(nil)

// NewConsole prompts on stdin/stdout, interactively when both are terminals.
func NewConsole() *Console {
	c := NewLineConsole(os.Stdin, os.Stdout)
	c.interactive = term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	return c
}

// NewLineConsole reads answers line by line from in.
func NewLineConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, reader: bufio.NewReader(in)}
}

// Ask implements Prompter.
func (c *Console) Ask(label, def string) (string, error) {
	if c.interactive {
		return runInput(label, def, c.in, c.out)
	}
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm implements Prompter.
func (c *Console) Confirm(label string, def bool) (bool, error) {
	if c.interactive {
		return runConfirm(label, def, c.in, c.out)
	}
	for {
		fmt.Fprintf(c.out, "%s %s: ", label, yesNoHint(def))
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		if ans, ok := parseYesNo(line, def); ok {
			return ans, nil
		}
		fmt.Fprintln(c.out, "Please answer y or n.")
	}
}

// readLine returns the next trimmed line. EOF after partial input counts
// as a line; EOF with nothing read is an empty answer.
func (c *Console) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read answer")
	}
	return strings.TrimSpace(line), nil
}

func yesNoHint(def bool) string {
	if def {
		return "[Y/n]"
	}
	return "[y/N]"
}

func parseYesNo(s string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// SplitList parses a comma separated answer, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
