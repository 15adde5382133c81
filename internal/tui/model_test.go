package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/ratiocalc/internal/multiplier"
	"github.com/julianshen/ratiocalc/internal/pricing"
	"github.com/julianshen/ratiocalc/internal/seed"
	"github.com/julianshen/ratiocalc/internal/store"
)

func newTestModel(t *testing.T) (*Model, *pricing.Table, store.KV) {
	t.Helper()
	kv := store.NewMemory()
	tbl := pricing.New(kv, pricing.WithSeed([]seed.Entry{
		{ModelName: "gpt-4o", InputPrice: 0.0025, OutputPrice: 0.01},
		{ModelName: "claude", InputPrice: 0.003, OutputPrice: 0.015},
	}))
	require.NoError(t, tbl.Load(context.Background()))
	return NewModel(context.Background(), tbl, zerolog.Nop()), tbl, kv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestUIStateConstants(t *testing.T) {
	states := []UIState{StateTable, StateConfirm, StateHelp}
	seen := make(map[UIState]bool)
	for _, s := range states {
		assert.False(t, seen[s], "duplicate UIState value: %d", s)
		seen[s] = true
	}
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, StateTable, m.State())
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 24, m.height)
	assert.False(t, m.quitting)
	assert.False(t, m.editor.Focused())
}

func TestViewShowsRows(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "One-API Multiplier Calculator")
	assert.Contains(t, view, "Price calculated per 1K Tokens")
	assert.Contains(t, view, "gpt-4o")
	assert.Contains(t, view, "1.2500")
	assert.Contains(t, view, "4.0000")
	assert.Contains(t, view, "Completion Multiplier")
}

func TestCursorMovement(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor(), "cursor stops at the last row")
	press(m, runes("k"))
	assert.Equal(t, 0, m.Cursor())
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())
}

func TestAddTypeAndSave(t *testing.T) {
	m, tbl, kv := newTestModel(t)
	ctx := context.Background()

	press(m, runes("a"))
	assert.Equal(t, 2, m.Cursor())
	assert.True(t, m.editor.Focused())

	typeText(m, "mistral")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "0.002")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "0.006")

	r, err := tbl.Row(2)
	require.NoError(t, err)
	assert.Equal(t, "mistral", r.ModelName)
	assert.Equal(t, 0.002, r.InputPrice)
	assert.Equal(t, 0.006, r.OutputPrice)
	assert.InDelta(t, 1.0, r.ModelMultiplier, 1e-12)
	assert.InDelta(t, 3.0, r.CompletionMultiplier, 1e-12)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	r, _ = tbl.Row(2)
	assert.False(t, r.Editing)
	assert.False(t, m.editor.Focused())

	fresh := pricing.New(kv)
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, 3, fresh.Len())
}

func TestLettersTypeWhileEditing(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, runes("e"))
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "qdu")

	assert.False(t, m.quitting, "q is typed, not quit, while editing")
	r, _ := tbl.Row(0)
	assert.Equal(t, "gpt-4qdu", r.ModelName)
	assert.Equal(t, multiplier.PerThousand, tbl.Unit())
}

func TestCancelNewRowRemovesIt(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, runes("a"))
	typeText(m, "draft")
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 1, m.Cursor(), "cursor moves back onto an existing row")
}

func TestCancelExistingRowRestores(t *testing.T) {
	m, tbl, _ := newTestModel(t)
	before, _ := tbl.Row(0)

	press(m, runes("e"), tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "9")
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	after, _ := tbl.Row(0)
	assert.Equal(t, before, after)
}

func TestDeleteDeclined(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, runes("d"))
	assert.Equal(t, StateConfirm, m.State())
	assert.Contains(t, m.View(), pricing.DeletePrompt)

	press(m, runes("n"))
	assert.Equal(t, StateTable, m.State())
	assert.Equal(t, 2, tbl.Len())
}

func TestDeleteConfirmed(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"), runes("y"))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.statusBar.Message(), "deleted row 2")
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, runes("d"), runes("a"))
	assert.Equal(t, StateConfirm, m.State())
	assert.Equal(t, 2, tbl.Len())
}

func TestToggleUnitKey(t *testing.T) {
	m, tbl, _ := newTestModel(t)

	press(m, runes("u"))
	assert.Equal(t, multiplier.PerMillion, tbl.Unit())
	assert.Contains(t, m.View(), "Price calculated per 1M Tokens")

	r, _ := tbl.Row(0)
	assert.InDelta(t, 2.5, r.InputPrice, 1e-9)
}

func TestResetKey(t *testing.T) {
	m, tbl, _ := newTestModel(t)
	press(m, runes("d"), runes("y"))
	require.Equal(t, 1, tbl.Len())

	press(m, runes("R"))
	assert.Contains(t, m.View(), pricing.ResetPrompt)
	press(m, runes("y"))

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, multiplier.PerThousand, tbl.Unit())
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, runes("?"))
	assert.Equal(t, StateHelp, m.State())
	assert.Contains(t, m.View(), "multiplier")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateTable, m.State())
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestCtrlCQuitsWhileEditing(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, runes("e"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 24, m.editor.Width())
}

func TestEditorWidthBounds(t *testing.T) {
	assert.Equal(t, 8, editorWidth(20))
	assert.Equal(t, 16, editorWidth(80))
	assert.Equal(t, 40, editorWidth(400))
}

func TestEmptyTable(t *testing.T) {
	tbl := pricing.New(store.NewMemory(), pricing.WithSeed([]seed.Entry{}))
	require.NoError(t, tbl.Load(context.Background()))
	m := NewModel(context.Background(), tbl, zerolog.Nop())

	press(m, runes("e"), runes("d"))
	assert.Equal(t, StateTable, m.State())
	assert.Contains(t, m.View(), "No rows")
}
