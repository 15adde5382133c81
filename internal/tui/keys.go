package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the table's key bindings. Browse bindings apply on committed
// rows; edit bindings apply while the selected row is being edited, where
// plain letters are typed into the cell instead.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Add   key.Binding
	Edit  key.Binding
	Del   key.Binding
	Unit  key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding

	Save      key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	EditUp    key.Binding
	EditDown  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:  key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Del:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Unit:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "1K/1M")),
		Reset: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Save:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		EditUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		EditDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	}
}

func (k KeyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Del, k.Unit, k.Reset, k.Help, k.Quit}
}

func (k KeyMap) editHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel, k.NextField, k.PrevField, k.EditUp, k.EditDown}
}
