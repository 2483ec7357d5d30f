package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

var (
	promptLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	promptHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// inputModel is a single line question.
type inputModel struct {
	label     string
	def       string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newInputModel(label, def string) inputModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 1000
	ti.Width = 60
	ti.Focus()
	return inputModel{label: label, def: def, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return promptLabelStyle.Render(m.label) + " " + m.Value() + "\n"
	}
	return promptLabelStyle.Render(m.label) + " " + m.input.View() + "\n"
}

// Value is the typed answer or the default.
func (m inputModel) Value() string {
	if v := m.input.Value(); v != "" {
		return v
	}
	return m.def
}

// confirmModel is a y/n question.
type confirmModel struct {
	label     string
	def       bool
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.answer, m.done = m.def, true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyRunes:
		if ans, ok := parseYesNo(string(key.Runes), m.def); ok {
			m.answer, m.done = ans, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	line := promptLabelStyle.Render(m.label) + " " + promptHintStyle.Render(yesNoHint(m.def))
	if m.done {
		line += " " + map[bool]string{true: "yes", false: "no"}[m.answer]
	}
	return line + "\n"
}

func runInput(label, def string, in io.Reader, out io.Writer) (string, error) {
	final, err := tea.NewProgram(newInputModel(label, def), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", errors.Wrap(err, "prompt")
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.Value(), nil
}

func runConfirm(label string, def bool, in io.Reader, out io.Writer) (bool, error) {
	final, err := tea.NewProgram(confirmModel{label: label, def: def}, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, errors.Wrap(err, "prompt")
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.answer, nil
}
