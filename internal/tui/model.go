// Package tui implements the interactive multiplier table.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/julianshen/ratiocalc/internal/pricing"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	// StateTable indicates the table has the keyboard.
	StateTable UIState = iota
	// StateConfirm indicates a delete or reset is waiting for a yes/no answer.
	StateConfirm
	// StateHelp indicates the help overlay is shown.
	StateHelp
)

// pendingAction is the destructive action a ConfirmPrompt guards.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionDelete
	actionReset
)

// editFields is the tab order of editable cells.
var editFields = []pricing.Field{
	pricing.FieldModelName,
	pricing.FieldInputPrice,
	pricing.FieldOutputPrice,
}

// Model is the Bubble Tea model for the multiplier table.
type Model struct {
	ctx        context.Context
	table      *pricing.Table
	log        zerolog.Logger
	keys       KeyMap
	help       help.Model
	editor     *CellEditor
	statusBar  *StatusBar
	mdRenderer *MarkdownRenderer
	confirm    *ConfirmPrompt
	pending    pendingAction
	pendingRow int
	state      UIState
	cursor     int
	field      int
	width      int
	height     int
	quitting   bool
}

// Ensure Model satisfies the tea.Model interface at compile time.
var _ tea.Model = (*Model)(nil)

// NewModel creates a TUI over an already loaded table.
func NewModel(ctx context.Context, table *pricing.Table, log zerolog.Logger) *Model {
	// Glamour renderer creation is unlikely to fail with the static "dark"
	// style; Render falls back to raw text if it does.
	mdRenderer, _ := NewMarkdownRenderer(78)

	m := &Model{
		ctx:        ctx,
		table:      table,
		log:        log,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		editor:     NewCellEditor(),
		statusBar:  NewStatusBar(80),
		mdRenderer: mdRenderer,
		state:      StateTable,
		width:      80,
		height:     24,
	}
	m.editor.SetWidth(editorWidth(m.width))
	m.syncEditor()
	m.refreshStatus()
	return m
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int { return m.cursor }

// State returns the current UI state.
func (m *Model) State() UIState { return m.state }

// selected returns the row under the cursor.
func (m *Model) selected() (pricing.Row, bool) {
	r, err := m.table.Row(m.cursor)
	if err != nil {
		return pricing.Row{}, false
	}
	return r, true
}

// editingSelected reports whether the row under the cursor is in edit mode.
func (m *Model) editingSelected() bool {
	r, ok := m.selected()
	return ok && r.Editing
}

func (m *Model) focusedField() pricing.Field { return editFields[m.field] }

// clampCursor keeps the cursor on an existing row after removals.
func (m *Model) clampCursor() {
	if m.cursor >= m.table.Len() {
		m.cursor = m.table.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncEditor loads the focused cell of the selected row into the editor,
// focusing it only when that row is being edited.
func (m *Model) syncEditor() tea.Cmd {
	r, ok := m.selected()
	if !ok || !r.Editing {
		m.editor.Blur()
		m.editor.SetValue("")
		return nil
	}
	m.editor.SetValue(cellValue(r, m.focusedField()))
	return m.editor.Focus()
}

func (m *Model) refreshStatus() {
	editing := 0
	for _, r := range m.table.Rows() {
		if r.Editing {
			editing++
		}
	}
	m.statusBar.SetCounts(m.table.Len(), editing)
	m.statusBar.SetUnit(m.table.Unit())
}

func (m *Model) fail(op string, err error) {
	m.log.Error().Err(err).Str("op", op).Int("row", m.cursor).Msg("table operation failed")
	m.statusBar.SetError(err)
}

// cellValue is the editable text of a field.
func cellValue(r pricing.Row, f pricing.Field) string {
	switch f {
	case pricing.FieldInputPrice:
		return strconv.FormatFloat(r.InputPrice, 'f', -1, 64)
	case pricing.FieldOutputPrice:
		return strconv.FormatFloat(r.OutputPrice, 'f', -1, 64)
	default:
		return r.ModelName
	}
}
