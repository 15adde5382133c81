package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmPrompt shows an inline yes/no box before a destructive action.
type ConfirmPrompt struct {
	question string
	yes      bool
	box      lipgloss.Style
}

// NewConfirmPrompt creates a prompt asking question. The width parameter
// controls the box width.
func NewConfirmPrompt(question string, width int) *ConfirmPrompt {
	boxWidth := width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#CC3300", Dark: "#FF6644"}).
		Width(boxWidth).
		Padding(0, 1)

	return &ConfirmPrompt{question: question, box: box}
}

// Confirmed reports whether the answer was yes.
func (c *ConfirmPrompt) Confirmed() bool { return c.yes }

// HandleKey processes a single keypress. Esc counts as no. Returns true if
// the key answered the prompt.
func (c *ConfirmPrompt) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y":
		c.yes = true
		return true
	case "n", "N", "esc":
		c.yes = false
		return true
	}
	return false
}

// View renders the prompt as a bordered box.
func (c *ConfirmPrompt) View() string {
	return c.box.Render(c.question+"\n"+"(y)es  (n)o") + "\n"
}
