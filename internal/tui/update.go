package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianshen/ratiocalc/internal/pricing"
)

// Init implements tea.Model. It focuses the editor when the first row was
// persisted mid-edit.
func (m *Model) Init() tea.Cmd {
	return m.syncEditor()
}

// Update implements tea.Model. It processes incoming messages and returns the
// updated model and any commands to execute.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.SetWidth(msg.Width)
		m.editor.SetWidth(editorWidth(msg.Width))
		m.help.Width = msg.Width
		if r, err := NewMarkdownRenderer(max(msg.Width-2, 20)); err == nil {
			m.mdRenderer = r
		}
		return m, nil
	}

	if m.editingSelected() {
		return m, m.editor.Update(msg)
	}
	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of state.
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateConfirm:
		if m.confirm != nil && m.confirm.HandleKey(msg) {
			m.resolveConfirm()
		}
		return m, nil
	case StateHelp:
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.state = StateTable
		}
		return m, nil
	}

	if m.editingSelected() {
		return m.handleEditKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m, m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		return m, m.moveCursor(1)

	case key.Matches(msg, m.keys.Add):
		m.cursor = m.table.AddRow()
		m.field = 0
		m.statusBar.SetMessage("new row")
		m.refreshStatus()
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.Edit):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		if err := m.table.ToggleEdit(m.ctx, m.cursor); err != nil {
			m.fail("edit", err)
			return m, nil
		}
		m.field = 0
		m.statusBar.SetMessage(fmt.Sprintf("editing row %d", m.cursor+1))
		m.refreshStatus()
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.Del):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		m.ask(actionDelete, pricing.DeletePrompt)
		return m, nil

	case key.Matches(msg, m.keys.Unit):
		if err := m.table.ToggleUnit(m.ctx); err != nil {
			m.fail("toggle unit", err)
			return m, nil
		}
		m.statusBar.SetMessage(fmt.Sprintf("prices now per %s tokens", m.table.Unit()))
		m.refreshStatus()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.ask(actionReset, pricing.ResetPrompt)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
		return m, nil
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if err := m.table.ToggleEdit(m.ctx, m.cursor); err != nil {
			m.fail("save", err)
			return m, nil
		}
		m.statusBar.SetMessage(fmt.Sprintf("saved row %d", m.cursor+1))
		m.refreshStatus()
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.Cancel):
		if err := m.table.CancelEdit(m.cursor); err != nil {
			m.fail("cancel", err)
			return m, nil
		}
		m.clampCursor()
		m.statusBar.SetMessage("edit cancelled")
		m.refreshStatus()
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.NextField):
		m.field = (m.field + 1) % len(editFields)
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.PrevField):
		m.field = (m.field + len(editFields) - 1) % len(editFields)
		return m, m.syncEditor()

	case key.Matches(msg, m.keys.EditUp):
		return m, m.moveCursor(-1)

	case key.Matches(msg, m.keys.EditDown):
		return m, m.moveCursor(1)
	}

	before := m.editor.Value()
	cmd := m.editor.Update(msg)
	if v := m.editor.Value(); v != before {
		if err := m.table.EditField(m.cursor, m.focusedField(), v); err != nil {
			m.fail("edit field", err)
		}
	}
	return m, cmd
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if next < 0 || next >= m.table.Len() {
		return nil
	}
	m.cursor = next
	return m.syncEditor()
}

func (m *Model) ask(action pendingAction, question string) {
	m.pending = action
	m.pendingRow = m.cursor
	m.confirm = NewConfirmPrompt(question, m.width)
	m.state = StateConfirm
}

// resolveConfirm runs the guarded action with the user's answer.
func (m *Model) resolveConfirm() {
	answer := pricing.ConfirmFunc(func(string) bool { return m.confirm.Confirmed() })
	action := m.pending
	m.pending = actionNone
	m.state = StateTable
	defer func() { m.confirm = nil }()

	switch action {
	case actionDelete:
		deleted, err := m.table.DeleteRow(m.ctx, m.pendingRow, answer)
		if err != nil {
			m.fail("delete", err)
			return
		}
		if deleted {
			m.clampCursor()
			m.statusBar.SetMessage(fmt.Sprintf("deleted row %d", m.pendingRow+1))
		}
	case actionReset:
		reset, err := m.table.ResetData(m.ctx, answer)
		if err != nil {
			m.fail("reset", err)
			return
		}
		if reset {
			m.cursor = 0
			m.field = 0
			m.statusBar.SetMessage("restored default models")
		}
	}
	m.refreshStatus()
	m.syncEditor()
}
