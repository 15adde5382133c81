package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestCellEditorSetValue(t *testing.T) {
	e := NewCellEditor()
	e.SetValue("0.0025")
	assert.Equal(t, "0.0025", e.Value())
}

func TestCellEditorTypingRequiresFocus(t *testing.T) {
	e := NewCellEditor()
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "", e.Value(), "blurred input ignores keys")

	e.Focus()
	assert.True(t, e.Focused())
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42")})
	assert.Equal(t, "42", e.Value())

	e.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "4", e.Value())

	e.Blur()
	assert.False(t, e.Focused())
}
