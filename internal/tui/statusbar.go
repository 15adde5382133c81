package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianshen/ratiocalc/internal/multiplier"
)

// StatusBar displays the row count, price unit and the last action's outcome.
type StatusBar struct {
	width   int
	rows    int
	editing int
	unit    multiplier.Unit
	message string
	isError bool
	style   lipgloss.Style
	errText lipgloss.Style
}

// NewStatusBar creates a new StatusBar with the given terminal width.
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{
		width: width,
		style: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}),
	}
}

// SetWidth updates the terminal width.
func (s *StatusBar) SetWidth(w int) { s.width = w }

// SetCounts sets the total and editing row counts.
func (s *StatusBar) SetCounts(rows, editing int) { s.rows = rows; s.editing = editing }

// SetUnit sets the displayed price unit.
func (s *StatusBar) SetUnit(u multiplier.Unit) { s.unit = u }

// SetMessage shows an informational message.
func (s *StatusBar) SetMessage(msg string) { s.message = msg; s.isError = false }

// SetError shows an error message.
func (s *StatusBar) SetError(err error) { s.message = err.Error(); s.isError = true }

// Message returns the current message.
func (s *StatusBar) Message() string { return s.message }

// View renders the status bar as a styled string.
func (s *StatusBar) View() string {
	line := s.style.Render(fmt.Sprintf(" %d rows  %d editing  per %s tokens", s.rows, s.editing, s.unit))
	if s.message == "" {
		return line
	}
	if s.isError {
		return line + "  " + s.errText.Render("Error: "+s.message)
	}
	return line + "  " + s.style.Render(s.message)
}
