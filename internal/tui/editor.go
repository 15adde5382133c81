package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CellEditor wraps a single-line textinput for the focused cell of an
// editing row.
type CellEditor struct {
	input textinput.Model
}

// NewCellEditor creates an unfocused editor.
func NewCellEditor() *CellEditor {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.Width = 30
	return &CellEditor{input: ti}
}

// Value returns the current text.
func (e *CellEditor) Value() string { return e.input.Value() }

// SetValue replaces the text and moves the cursor to the end.
func (e *CellEditor) SetValue(s string) {
	e.input.SetValue(s)
	e.input.CursorEnd()
}

// SetWidth sets the visible width of the input.
func (e *CellEditor) SetWidth(w int) { e.input.Width = w }

// Width returns the visible width of the input.
func (e *CellEditor) Width() int { return e.input.Width }

// editorWidth sizes the editor to one table column of a terminal that is
// termWidth cells wide.
func editorWidth(termWidth int) int {
	return min(max(termWidth/5, 8), 40)
}

// Focus gives the input focus.
func (e *CellEditor) Focus() tea.Cmd { return e.input.Focus() }

// Blur removes focus from the input.
func (e *CellEditor) Blur() { e.input.Blur() }

// Focused reports whether the input has focus.
func (e *CellEditor) Focused() bool { return e.input.Focused() }

// Update delegates a message to the input and returns any command.
func (e *CellEditor) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

// View renders the input.
func (e *CellEditor) View() string { return e.input.View() }
