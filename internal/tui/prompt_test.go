package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineConsoleAsk(t *testing.T) {
	var out bytes.Buffer
	c := NewLineConsole(strings.NewReader("Add login\n\n"), &out)

	got, err := c.Ask("Summary", "")
	require.NoError(t, err)
	assert.Equal(t, "Add login", got)

	got, err = c.Ask("Issue type", "Story")
	require.NoError(t, err)
	assert.Equal(t, "Story", got)

	assert.Equal(t, "Summary: Issue type [Story]: ", out.String())
}

func TestLineConsoleAskEOF(t *testing.T) {
	c := NewLineConsole(strings.NewReader("partial"), &bytes.Buffer{})
	got, err := c.Ask("Summary", "")
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	got, err = c.Ask("Labels", "backend")
	require.NoError(t, err)
	assert.Equal(t, "backend", got)
}

func TestLineConsoleConfirm(t *testing.T) {
	var out bytes.Buffer
	c := NewLineConsole(strings.NewReader("maybe\nY\n\n"), &out)

	ok, err := c.Confirm("Create PR anyway?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Please answer y or n.")

	ok, err = c.Confirm("Save defaults?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Confirm("Overwrite?", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}

func TestInputModel(t *testing.T) {
	m := newInputModel("Summary", "Story")
	assert.Equal(t, "Story", m.Value())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Bug")})
	m = next.(inputModel)
	assert.Equal(t, "Bug", m.Value())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inputModel)
	assert.True(t, m.done)
	assert.NotNil(t, cmd)

	next, _ = newInputModel("x", "").Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(inputModel).cancelled)
}

func TestConfirmModel(t *testing.T) {
	next, _ := confirmModel{def: false}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m := next.(confirmModel)
	assert.True(t, m.done)
	assert.True(t, m.answer)

	next, _ = confirmModel{def: true}.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(confirmModel)
	assert.True(t, m.answer)

	next, _ = confirmModel{def: true}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.False(t, next.(confirmModel).done)

	next, _ = confirmModel{}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.(confirmModel).cancelled)
}
